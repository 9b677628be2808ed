package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocksync-service/internal/config"
	"stocksync-service/internal/models"
	"stocksync-service/internal/services"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := config.Load()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	handler := NewSyncHandler(cfg, services.NewSyncService(cfg, logger), logger)
	health := NewHealthHandler()

	router := gin.New()
	router.GET("/health", health.Health)
	v1 := router.Group("/api/v1")
	{
		v1.POST("/sync", handler.Sync)
		v1.POST("/sync/report", handler.ExportReport)
	}
	return router
}

func multipartBody(t *testing.T, files map[string][2]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for field, file := range files {
		part, err := w.CreateFormFile(field, file[0])
		require.NoError(t, err)
		_, err = part.Write([]byte(file[1]))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

const physicalFixture = `STREET ART;00123_4;65368-2;"HUF TEE LOGO";"M";3,00;;;10,00;;25,00;
STREET ART;00124_1;12345-1;"CARHARTT WIP CHASE BEANIE I026222.XX";"Taille unique";1,00;;;8,00;;20,00;
`

const shopifyFixture = `Title,Vendor,Variant Barcode,Variant Quantity
Huf Tee Logo,Huf,65368-2,1
Obey Cap,Obey,77777-1,5
`

func TestSyncEndpoint(t *testing.T) {
	router := testRouter()

	body, contentType := multipartBody(t, map[string][2]string{
		"physical": {"stock.csv", physicalFixture},
		"shopify":  {"export.csv", shopifyFixture},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.SyncResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Stats.Matched)
	assert.Len(t, resp.Stats.SetToZero, 1)
	assert.Len(t, resp.Stats.NotInShopify, 1)
	assert.True(t, resp.HasNewProducts)
	assert.Contains(t, resp.Report, "SYNCHRONIZATION REPORT")

	// The updated export carries the physical quantity.
	csv, err := base64.StdEncoding.DecodeString(resp.ShopifyCSVB64)
	require.NoError(t, err)
	assert.Contains(t, string(csv), "Huf Tee Logo,Huf,65368-2,3")
	assert.Contains(t, string(csv), "Obey Cap,Obey,77777-1,0")

	newProducts, err := base64.StdEncoding.DecodeString(resp.NewProductsCSVB64)
	require.NoError(t, err)
	assert.Contains(t, string(newProducts), "Carhartt WIP Chase Beanie")
	assert.Contains(t, string(newProducts), "12345-1")
}

func TestSyncEndpointMissingFile(t *testing.T) {
	router := testRouter()

	body, contentType := multipartBody(t, map[string][2]string{
		"physical": {"stock.csv", physicalFixture},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "FILE_REQUIRED", resp.Error.Code)
}

func TestSyncEndpointBadPhysicalFile(t *testing.T) {
	router := testRouter()

	body, contentType := multipartBody(t, map[string][2]string{
		"physical": {"stock.csv", "this is not a stock export"},
		"shopify":  {"export.csv", shopifyFixture},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "PARSE_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "store marker")
}

func TestSyncReportEndpoint(t *testing.T) {
	router := testRouter()

	body, contentType := multipartBody(t, map[string][2]string{
		"physical": {"stock.csv", physicalFixture},
		"shopify":  {"export.csv", shopifyFixture},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync/report", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "sync_report.xlsx")
	assert.NotZero(t, rec.Body.Len())
}

func TestHealthEndpoint(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
