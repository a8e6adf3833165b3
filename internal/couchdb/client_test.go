package couchdb

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/zhilfond/housing-registry/internal/config"
)

// newTestClient создаёт клиент, указывающий на тестовый сервер.
func newTestClient(serverURL string) *Client {
	cfg := &config.Config{
		CouchDBURL:      serverURL,
		CouchDBName:     "certificates",
		CouchDBUser:     "admin",
		CouchDBPassword: "secret",
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	return New(cfg, logger)
}

func TestEnsureDatabase_AlreadyExists(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/certificates" {
			t.Errorf("неожиданный запрос: %s %s", r.Method, r.URL.Path)
		}
		// 412 — база уже есть, не ошибка
		w.WriteHeader(http.StatusPreconditionFailed)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if err := c.EnsureDatabase(context.Background()); err != nil {
		t.Fatalf("EnsureDatabase: %v", err)
	}
}

func TestSaveCertificate_TwoStepWrite(t *testing.T) {
	var docPuts, attachmentPuts int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "secret" {
			t.Error("запрос без basic auth")
		}

		switch {
		case r.Method == http.MethodPut && r.Header.Get("Content-Type") == "application/json":
			// Первый шаг: документ с метаданными
			docPuts++
			raw, err := io.ReadAll(r.Body)
			if err != nil {
				t.Fatalf("чтение тела документа: %v", err)
			}
			// id передаётся только в URL: пустой _id в теле CouchDB
			// отвергает со статусом 400 (illegal_docid)
			if strings.Contains(string(raw), `"_id"`) {
				t.Errorf("тело документа не должно содержать _id: %s", raw)
			}
			var doc Document
			if err := json.Unmarshal(raw, &doc); err != nil {
				t.Fatalf("разбор документа: %v", err)
			}
			if doc.TenantID != 7 || doc.Type != "certificate" || doc.CreatedAt == "" {
				t.Errorf("некорректные метаданные: %+v", doc)
			}
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(saveResponse{OK: true, ID: "x", Rev: "1-abc"})

		case r.Method == http.MethodPut && r.Header.Get("Content-Type") == "application/pdf":
			// Второй шаг: PDF-вложение к созданной ревизии
			attachmentPuts++
			if r.URL.Query().Get("rev") != "1-abc" {
				t.Errorf("rev = %q, ожидается 1-abc", r.URL.Query().Get("rev"))
			}
			body, _ := io.ReadAll(r.Body)
			if string(body) != "%PDF-fake" {
				t.Errorf("тело вложения = %q", body)
			}
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(saveResponse{OK: true, ID: "x", Rev: "2-def"})

		default:
			t.Errorf("неожиданный запрос: %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	docID, err := c.SaveCertificate(context.Background(), 7, []byte("%PDF-fake"))
	if err != nil {
		t.Fatalf("SaveCertificate: %v", err)
	}
	if docID == "" {
		t.Error("docID не должен быть пустым")
	}
	if docPuts != 1 || attachmentPuts != 1 {
		t.Errorf("записей: doc=%d, attachment=%d, ожидается по одной", docPuts, attachmentPuts)
	}
}

func TestSaveCertificate_NewDocEveryCall(t *testing.T) {
	// Архив только пополняется: каждый вызов создаёт новый документ
	seen := make(map[string]bool)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") == "application/json" {
			seen[r.URL.Path] = true
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(saveResponse{OK: true, ID: "x", Rev: "1-a"})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	id1, err := c.SaveCertificate(context.Background(), 3, []byte("pdf"))
	if err != nil {
		t.Fatalf("первый вызов: %v", err)
	}
	id2, err := c.SaveCertificate(context.Background(), 3, []byte("pdf"))
	if err != nil {
		t.Fatalf("второй вызов: %v", err)
	}

	if id1 == id2 {
		t.Error("повторная генерация должна создавать новый документ архива")
	}
	if len(seen) != 2 {
		t.Errorf("создано документов: %d, ожидается 2", len(seen))
	}
}

func TestGetCertificate_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.GetCertificate(context.Background(), "missing"); err != ErrNotFound {
		t.Errorf("ожидается ErrNotFound, получено: %v", err)
	}
}

func TestGetAttachment_ContentTypePassthrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/certificates/doc-1/certificate_5.pdf" {
			t.Errorf("неожиданный путь: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-data"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	data, contentType, err := c.GetAttachment(context.Background(), "doc-1", "certificate_5.pdf")
	if err != nil {
		t.Fatalf("GetAttachment: %v", err)
	}
	if string(data) != "%PDF-data" {
		t.Errorf("вложение изменено при передаче: %q", data)
	}
	if contentType != "application/pdf" {
		t.Errorf("content type = %q, ожидается application/pdf", contentType)
	}
}

func TestListCertificates_SkipsDesignDocs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/certificates/_all_docs" {
			t.Errorf("неожиданный путь: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"total_rows": 2,
			"rows": [
				{"id": "_design/x", "doc": {"_id": "_design/x"}},
				{"id": "doc-1", "doc": {"_id": "doc-1", "tenant_id": 4,
					"created_at": "2024-01-01T10:00:00Z", "type": "certificate",
					"_attachments": {"certificate_4.pdf": {"content_type": "application/pdf", "length": 100}}}}
			]
		}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	docs, err := c.ListCertificates(context.Background())
	if err != nil {
		t.Fatalf("ListCertificates: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("документов: %d, ожидается 1 (служебные пропущены)", len(docs))
	}
	if docs[0].TenantID != 4 {
		t.Errorf("TenantID = %d, ожидается 4", docs[0].TenantID)
	}
	if docs[0].FirstAttachmentName() != "certificate_4.pdf" {
		t.Errorf("FirstAttachmentName() = %q", docs[0].FirstAttachmentName())
	}
}

func TestUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	srvURL := srv.URL
	srv.Close() // сервер остановлен — соединение не установится

	c := newTestClient(srvURL)
	status, _ := c.CheckReady()
	if status != "fail" {
		t.Errorf("CheckReady() = %q, ожидается fail", status)
	}
}
