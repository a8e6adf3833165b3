package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/zhilfond/housing-registry/internal/couchdb"
	"github.com/zhilfond/housing-registry/internal/pdf"
	"github.com/zhilfond/housing-registry/internal/repository"
)

// CertificateArchive — архив выданных справок.
// Реализуется клиентом CouchDB.
type CertificateArchive interface {
	SaveCertificate(ctx context.Context, tenantID int64, pdf []byte) (string, error)
	ListCertificates(ctx context.Context) ([]couchdb.Document, error)
	GetCertificate(ctx context.Context, docID string) (*couchdb.Document, error)
	GetAttachment(ctx context.Context, docID, name string) ([]byte, string, error)
}

// IssuedCertificate — только что выданная справка: PDF для скачивания
// и идентификатор архивной копии.
type IssuedCertificate struct {
	DocID    string
	FileName string
	PDF      []byte
}

// ArchivedCertificate — справка из архива для скачивания.
type ArchivedCertificate struct {
	FileName    string
	ContentType string
	Content     []byte
}

// CertificateService выдаёт справки о жилье и архивирует их.
type CertificateService struct {
	tenants repository.TenantRepository
	archive CertificateArchive
	logger  *slog.Logger
	// now подменяется в тестах для детерминированной даты выдачи
	now func() time.Time
}

// NewCertificateService создаёт сервис справок.
func NewCertificateService(
	tenants repository.TenantRepository,
	archive CertificateArchive,
	logger *slog.Logger,
) *CertificateService {
	return &CertificateService{
		tenants: tenants,
		archive: archive,
		logger:  logger.With(slog.String("component", "certificate_service")),
		now:     time.Now,
	}
}

// Issue формирует справку о жилье для жильца, сохраняет её в архив
// и возвращает PDF для скачивания. Сначала проверяется существование
// жильца; неразрешимая адресная цепочка у существующего жильца —
// нарушение целостности, а не «не найдено».
func (s *CertificateService) Issue(ctx context.Context, tenantID int64) (*IssuedCertificate, error) {
	if _, err := s.tenants.GetByID(ctx, tenantID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: жилец %d", ErrNotFound, tenantID)
		}
		return nil, s.storageError("получение жильца", err)
	}

	tenant, err := s.tenants.GetWithAddress(ctx, tenantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: у жильца %d не разрешается адрес", ErrDataIntegrity, tenantID)
		}
		return nil, s.storageError("получение адреса жильца", err)
	}

	var series string
	if tenant.PassportSeries != nil {
		series = *tenant.PassportSeries
	}
	document, err := pdf.Certificate(pdf.CertificateData{
		FullName:         tenant.FullName(),
		PassportSeries:   series,
		PassportNumber:   tenant.PassportNumber,
		StreetName:       tenant.Street.Name,
		BuildingNumber:   tenant.Building.Number,
		ApartmentNumber:  tenant.Apartment.Number,
		Area:             tenant.Apartment.Area,
		Rooms:            tenant.Apartment.Rooms,
		OwnershipType:    tenant.Apartment.OwnershipType,
		RegistrationDate: tenant.RegistrationDate,
		IssuedAt:         s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("формирование справки: %w", err)
	}

	docID, err := s.archive.SaveCertificate(ctx, tenantID, document)
	if err != nil {
		if errors.Is(err, couchdb.ErrUnavailable) {
			return nil, fmt.Errorf("%w: архив справок", ErrStorageUnavailable)
		}
		return nil, fmt.Errorf("архивирование справки: %w", err)
	}

	s.logger.Info("Справка выдана",
		slog.Int64("tenant_id", tenantID),
		slog.String("doc_id", docID),
	)
	return &IssuedCertificate{
		DocID:    docID,
		FileName: fmt.Sprintf("certificate_%d.pdf", tenantID),
		PDF:      document,
	}, nil
}

// List возвращает все архивные справки, новые первыми.
func (s *CertificateService) List(ctx context.Context) ([]couchdb.Document, error) {
	docs, err := s.archive.ListCertificates(ctx)
	if err != nil {
		if errors.Is(err, couchdb.ErrUnavailable) {
			return nil, fmt.Errorf("%w: архив справок", ErrStorageUnavailable)
		}
		return nil, fmt.Errorf("получение списка справок: %w", err)
	}
	return docs, nil
}

// Fetch возвращает архивную справку по идентификатору документа.
func (s *CertificateService) Fetch(ctx context.Context, docID string) (*ArchivedCertificate, error) {
	doc, err := s.archive.GetCertificate(ctx, docID)
	if err != nil {
		switch {
		case errors.Is(err, couchdb.ErrNotFound):
			return nil, fmt.Errorf("%w: справка %s", ErrNotFound, docID)
		case errors.Is(err, couchdb.ErrUnavailable):
			return nil, fmt.Errorf("%w: архив справок", ErrStorageUnavailable)
		}
		return nil, fmt.Errorf("получение справки: %w", err)
	}

	name := doc.FirstAttachmentName()
	if name == "" {
		return nil, fmt.Errorf("%w: у справки %s нет вложения", ErrDataIntegrity, docID)
	}

	content, contentType, err := s.archive.GetAttachment(ctx, docID, name)
	if err != nil {
		if errors.Is(err, couchdb.ErrUnavailable) {
			return nil, fmt.Errorf("%w: архив справок", ErrStorageUnavailable)
		}
		return nil, fmt.Errorf("получение вложения справки: %w", err)
	}

	return &ArchivedCertificate{
		FileName:    name,
		ContentType: contentType,
		Content:     content,
	}, nil
}

func (s *CertificateService) storageError(op string, err error) error {
	s.logger.Error("Ошибка хранилища",
		slog.String("op", op),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("%w: %s", ErrStorageUnavailable, op)
}
