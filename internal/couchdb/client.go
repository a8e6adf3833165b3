// Пакет couchdb — HTTP-клиент архива справок в CouchDB.
// Один процессный клиент на всё приложение: создаётся при старте,
// база документов инициализируется через EnsureDatabase.
// Каждая справка — отдельный документ с PDF-вложением; архив только
// пополняется, записи не обновляются и не дедуплицируются.
package couchdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/zhilfond/housing-registry/internal/config"
)

// Ошибки клиента архива.
var (
	// ErrNotFound — документ или вложение не найдены.
	ErrNotFound = errors.New("документ не найден в архиве")
	// ErrUnavailable — CouchDB недоступен или вернул ошибку сервера.
	ErrUnavailable = errors.New("архив документов недоступен")
)

// Тип документа-справки в архиве.
const certificateDocType = "certificate"

// Document — документ архива с метаданными справки.
type Document struct {
	// ID сериализуется с omitempty: CouchDB отвергает пустой _id в теле
	// запроса (illegal_docid), id нового документа передаётся только в URL.
	ID        string `json:"_id,omitempty"`
	Rev       string `json:"_rev,omitempty"`
	TenantID  int64  `json:"tenant_id"`
	CreatedAt string `json:"created_at"`
	Type      string `json:"type"`
	// Attachments — вложения документа (имя → метаданные).
	Attachments map[string]AttachmentStub `json:"_attachments,omitempty"`
}

// AttachmentStub — метаданные вложения без содержимого.
type AttachmentStub struct {
	ContentType string `json:"content_type"`
	Length      int64  `json:"length"`
}

// FirstAttachmentName возвращает имя первого вложения документа
// (детерминированно — лексикографически первое) или пустую строку.
func (d *Document) FirstAttachmentName() string {
	if len(d.Attachments) == 0 {
		return ""
	}
	names := make([]string, 0, len(d.Attachments))
	for name := range d.Attachments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names[0]
}

// Client — HTTP-клиент CouchDB. Безопасен для конкурентного использования.
type Client struct {
	httpClient *http.Client
	baseURL    string
	dbName     string
	username   string
	password   string
	logger     *slog.Logger
}

// New создаёт клиент архива справок.
func New(cfg *config.Config, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    cfg.CouchDBURL,
		dbName:     cfg.CouchDBName,
		username:   cfg.CouchDBUser,
		password:   cfg.CouchDBPassword,
		logger:     logger.With(slog.String("component", "couchdb_client")),
	}
}

// EnsureDatabase создаёт базу документов, если она ещё не существует.
// Вызывается один раз при старте приложения.
func (c *Client) EnsureDatabase(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPut, "/"+url.PathEscape(c.dbName), nil, "")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		c.logger.Info("База архива создана", slog.String("db", c.dbName))
		return nil
	case http.StatusPreconditionFailed:
		// База уже существует
		return nil
	default:
		return fmt.Errorf("%w: создание базы вернуло статус %d", ErrUnavailable, resp.StatusCode)
	}
}

// saveResponse — ответ CouchDB на запись документа/вложения.
type saveResponse struct {
	OK  bool   `json:"ok"`
	ID  string `json:"id"`
	Rev string `json:"rev"`
}

// SaveCertificate сохраняет справку жильца в архив: создаёт новый документ
// с метаданными и прикрепляет PDF как вложение. Каждый вызов создаёт
// отдельную запись архива; возвращает id созданного документа.
func (c *Client) SaveCertificate(ctx context.Context, tenantID int64, pdf []byte) (string, error) {
	docID := uuid.New().String()

	// 1. Документ с метаданными
	doc := Document{
		TenantID:  tenantID,
		CreatedAt: time.Now().Format(time.RFC3339),
		Type:      certificateDocType,
	}
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации документа: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPut, c.docPath(docID), bytes.NewReader(body), "application/json")
	if err != nil {
		return "", err
	}
	saved, err := decodeSaveResponse(resp)
	if err != nil {
		return "", fmt.Errorf("ошибка создания документа: %w", err)
	}

	// 2. PDF как вложение к созданной ревизии
	attachmentName := fmt.Sprintf("certificate_%d.pdf", tenantID)
	attachmentPath := c.docPath(docID) + "/" + url.PathEscape(attachmentName) + "?rev=" + url.QueryEscape(saved.Rev)

	resp, err = c.do(ctx, http.MethodPut, attachmentPath, bytes.NewReader(pdf), "application/pdf")
	if err != nil {
		return "", err
	}
	if _, err := decodeSaveResponse(resp); err != nil {
		return "", fmt.Errorf("ошибка сохранения вложения: %w", err)
	}

	c.logger.Info("Справка сохранена в архив",
		slog.String("doc_id", docID),
		slog.Int64("tenant_id", tenantID),
		slog.Int("size", len(pdf)),
	)

	return docID, nil
}

// allDocsResponse — ответ CouchDB на _all_docs?include_docs=true.
type allDocsResponse struct {
	TotalRows int `json:"total_rows"`
	Rows      []struct {
		ID  string    `json:"id"`
		Doc *Document `json:"doc"`
	} `json:"rows"`
}

// ListCertificates возвращает метаданные всех справок архива.
func (c *Client) ListCertificates(ctx context.Context) ([]Document, error) {
	path := "/" + url.PathEscape(c.dbName) + "/_all_docs?include_docs=true"
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: _all_docs вернул статус %d", ErrUnavailable, resp.StatusCode)
	}

	var parsed allDocsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("ошибка разбора ответа _all_docs: %w", err)
	}

	docs := make([]Document, 0, len(parsed.Rows))
	for _, row := range parsed.Rows {
		// Служебные документы (_design/...) пропускаем
		if row.Doc == nil || row.Doc.Type != certificateDocType {
			continue
		}
		docs = append(docs, *row.Doc)
	}
	return docs, nil
}

// GetCertificate возвращает документ архива по id.
func (c *Client) GetCertificate(ctx context.Context, docID string) (*Document, error) {
	resp, err := c.do(ctx, http.MethodGet, c.docPath(docID), nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("%w: получение документа вернуло статус %d", ErrUnavailable, resp.StatusCode)
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("ошибка разбора документа: %w", err)
	}
	return &doc, nil
}

// GetAttachment возвращает содержимое вложения и его content type
// без модификаций.
func (c *Client) GetAttachment(ctx context.Context, docID, name string) ([]byte, string, error) {
	path := c.docPath(docID) + "/" + url.PathEscape(name)
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, "", ErrNotFound
	default:
		return nil, "", fmt.Errorf("%w: получение вложения вернуло статус %d", ErrUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("ошибка чтения вложения: %w", err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// CheckReady проверяет доступность CouchDB через /_up.
// Реализует интерфейс handlers.ReadinessChecker.
func (c *Client) CheckReady() (status string, message string) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	resp, err := c.do(ctx, http.MethodGet, "/_up", nil, "")
	if err != nil {
		return "fail", fmt.Sprintf("CouchDB недоступен: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "fail", fmt.Sprintf("CouchDB /_up вернул статус %d", resp.StatusCode)
	}
	return "ok", "подключение активно"
}

// UpURL возвращает URL эндпоинта /_up (для внешних проверок здоровья).
func (c *Client) UpURL() string {
	return c.baseURL + "/_up"
}

// docPath возвращает путь документа внутри базы.
func (c *Client) docPath(docID string) string {
	return "/" + url.PathEscape(c.dbName) + "/" + url.PathEscape(docID)
}

// do выполняет HTTP-запрос к CouchDB с basic auth.
// Сетевые ошибки оборачиваются в ErrUnavailable.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

// decodeSaveResponse разбирает ответ на запись и закрывает тело.
func decodeSaveResponse(resp *http.Response) (*saveResponse, error) {
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("%w: запись вернула статус %d", ErrUnavailable, resp.StatusCode)
	}

	var saved saveResponse
	if err := json.NewDecoder(resp.Body).Decode(&saved); err != nil {
		return nil, fmt.Errorf("ошибка разбора ответа записи: %w", err)
	}
	if !saved.OK {
		return nil, fmt.Errorf("%w: CouchDB отклонил запись", ErrUnavailable)
	}
	return &saved, nil
}
