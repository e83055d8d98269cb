package handler

import (
	"bytes"
	"encoding/json"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mailcraft/mailcraft/internal/document/service"
	"github.com/mailcraft/mailcraft/internal/drafts"
	"github.com/mailcraft/mailcraft/internal/layout"
	"github.com/mailcraft/mailcraft/internal/storage"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	layouts, err := layout.NewStore("", "")
	require.NoError(t, err)
	ls, err := storage.NewLocalStorage(storage.LocalConfig{Dir: t.TempDir(), BaseURL: "http://localhost:5000/uploads"})
	require.NoError(t, err)

	h := New(
		service.NewMemoryService(layouts),
		drafts.NewService(drafts.NewMemoryRepository(), time.Hour),
		layouts,
		storage.NewUploader(ls, 1024),
	)
	g := gin.New()
	h.Register(g)
	return g
}

func do(g *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success  bool            `json:"success"`
	Error    string          `json:"error"`
	Template json.RawMessage `json:"template"`
	Draft    struct {
		ID         string `json:"id"`
		TemplateID string `json:"templateId"`
		Document   struct {
			Name     string            `json:"name"`
			Sections []string          `json:"sections"`
			Content  map[string]string `json:"content"`
			Style    map[string]string `json:"style"`
		} `json:"document"`
	} `json:"draft"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	return e
}

func templateID(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var tm struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(raw, &tm))
	require.NotEmpty(t, tm.ID)
	return tm.ID
}

func TestSaveRenderAndDownload(t *testing.T) {
	g := newRouter(t)

	w := do(g, http.MethodPost, "/api/uploadEmailConfig",
		`{"name":"Welcome","layout":"default.html","config":{"variables":{"title":"Hi","content":"Body","footer":"Bye","junk":"x"},"images":["https://img/x.png"],"styles":{"titleColor":"#ff0000"}}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	e := decode(t, w)
	require.True(t, e.Success)
	id := templateID(t, e.Template)
	require.NotContains(t, string(e.Template), "junk")

	w = do(g, http.MethodPost, "/api/renderAndDownloadTemplate", `{"templateId":"`+id+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "attachment; filename=Welcome.html", w.Header().Get("Content-Disposition"))
	require.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"))
	require.Contains(t, w.Body.String(), "Hi")
	require.Contains(t, w.Body.String(), "color:#ff0000")
	require.Contains(t, w.Body.String(), `src="https://img/x.png"`)
	// only titleColor was sent, so the other style tokens stay in place
	require.Contains(t, w.Header().Get("X-Unresolved-Placeholders"), "contentColor")
	require.NotContains(t, w.Header().Get("X-Unresolved-Placeholders"), "titleColor")

	w = do(g, http.MethodGet, "/api/templates/"+id+"/render", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Header().Get("Content-Disposition"))

	w = do(g, http.MethodGet, "/api/templates/"+id+"/renders", "")
	require.Equal(t, http.StatusOK, w.Code)
	var hist struct {
		Renders []map[string]interface{} `json:"renders"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hist))
	require.Len(t, hist.Renders, 2)
}

func TestRenderMissingTemplate(t *testing.T) {
	g := newRouter(t)

	w := do(g, http.MethodPost, "/api/renderAndDownloadTemplate", `{"templateId":"missing"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	e := decode(t, w)
	require.False(t, e.Success)
	require.Equal(t, "Template not found", e.Error)
	require.Empty(t, w.Header().Get("Content-Disposition"))

	w = do(g, http.MethodPost, "/api/renderAndDownloadTemplate", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(g, http.MethodGet, "/api/templates/missing", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadFilenameSurvivesSpaces(t *testing.T) {
	g := newRouter(t)

	w := do(g, http.MethodPost, "/api/uploadEmailConfig", `{"config":{"variables":{"title":"x"}}}`)
	require.Equal(t, http.StatusOK, w.Code)
	id := templateID(t, decode(t, w).Template)

	w = do(g, http.MethodPost, "/api/renderAndDownloadTemplate", `{"templateId":"`+id+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	disposition, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	require.Equal(t, "attachment", disposition)
	require.Equal(t, "Untitled Template.html", params["filename"])
}

func TestNullDocumentIsIgnored(t *testing.T) {
	g := newRouter(t)

	w := do(g, http.MethodPost, "/api/uploadEmailConfig", `{"name":"Real","config":{"variables":{"title":"Hi"}},"document":null}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Template struct {
			Name   string `json:"name"`
			Config struct {
				Variables map[string]string `json:"variables"`
			} `json:"config"`
		} `json:"template"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, "Real", out.Template.Name)
	require.Equal(t, "Hi", out.Template.Config.Variables["title"])

	w = do(g, http.MethodPost, "/api/drafts", `{"document":null}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Equal(t, []string{"title", "image", "content", "footer"}, decode(t, w).Draft.Document.Sections)
}

func TestSaveLiveDocument(t *testing.T) {
	g := newRouter(t)

	w := do(g, http.MethodPost, "/api/uploadEmailConfig",
		`{"document":{"name":"Doc","sections":["footer","title","image","content"],"content":{"title":"T"},"style":{"footerColor":"#00ff00"}}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		Template struct {
			Layout string `json:"layout"`
			Config struct {
				Variables map[string]string `json:"variables"`
				Images    []string          `json:"images"`
				Styles    map[string]string `json:"styles"`
				Sections  []string          `json:"sections"`
			} `json:"config"`
		} `json:"template"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.Equal(t, "default.html", out.Template.Layout)
	require.Equal(t, "T", out.Template.Config.Variables["title"])
	require.Equal(t, "", out.Template.Config.Variables["footer"])
	require.Empty(t, out.Template.Config.Images)
	require.Equal(t, "#00ff00", out.Template.Config.Styles["footerColor"])
	require.Equal(t, "24px", out.Template.Config.Styles["titleSize"])
	require.Equal(t, []string{"footer", "title", "image", "content"}, out.Template.Config.Sections)

	w = do(g, http.MethodPost, "/api/uploadEmailConfig", `{"document":{"sections":["title","title"]}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(g, http.MethodGet, "/api/templates", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Templates []map[string]interface{} `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Templates, 1)
}

func TestDeleteTemplate(t *testing.T) {
	g := newRouter(t)
	w := do(g, http.MethodPost, "/api/uploadEmailConfig", `{"name":"x","config":{}}`)
	require.Equal(t, http.StatusOK, w.Code)
	id := templateID(t, decode(t, w).Template)

	require.Equal(t, http.StatusNoContent, do(g, http.MethodDelete, "/api/templates/"+id, "").Code)
	require.Equal(t, http.StatusNotFound, do(g, http.MethodDelete, "/api/templates/"+id, "").Code)
}

func TestDraftLifecycle(t *testing.T) {
	g := newRouter(t)

	w := do(g, http.MethodPost, "/api/drafts", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	e := decode(t, w)
	draftID := e.Draft.ID
	require.NotEmpty(t, draftID)
	require.Equal(t, []string{"title", "image", "content", "footer"}, e.Draft.Document.Sections)

	for _, op := range []string{
		`{"op":"setName","value":"Promo"}`,
		`{"op":"setContent","section":"title","value":"Sale"}`,
		`{"op":"setStyle","section":"title","property":"color","value":"#123456"}`,
		`{"op":"moveSection","from":0,"to":2}`,
	} {
		w = do(g, http.MethodPatch, "/api/drafts/"+draftID, op)
		require.Equal(t, http.StatusOK, w.Code, op+": "+w.Body.String())
	}
	e = decode(t, w)
	require.Equal(t, []string{"image", "content", "title", "footer"}, e.Draft.Document.Sections)
	require.Equal(t, "#123456", e.Draft.Document.Style["titleColor"])

	// rejected operations leave the draft untouched
	w = do(g, http.MethodPatch, "/api/drafts/"+draftID, `{"op":"moveSection","from":0,"to":9}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = do(g, http.MethodPatch, "/api/drafts/"+draftID, `{"op":"setContent","section":"header","value":"x"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = do(g, http.MethodPatch, "/api/drafts/"+draftID, `{"op":"explode"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(g, http.MethodGet, "/api/drafts/"+draftID+"/preview", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Sale")
	require.Contains(t, w.Header().Get("X-Unresolved-Placeholders"), "imageUrl")

	w = do(g, http.MethodPost, "/api/drafts/"+draftID+"/save", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	e = decode(t, w)
	id := templateID(t, e.Template)
	require.Equal(t, id, e.Draft.TemplateID)

	// a second save overwrites the same template
	do(g, http.MethodPatch, "/api/drafts/"+draftID, `{"op":"setName","value":"Promo 2"}`)
	w = do(g, http.MethodPost, "/api/drafts/"+draftID+"/save", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, id, templateID(t, decode(t, w).Template))

	// reopening a saved template restores its order and content
	w = do(g, http.MethodPost, "/api/templates/"+id+"/edit", "")
	require.Equal(t, http.StatusCreated, w.Code)
	e = decode(t, w)
	require.Equal(t, id, e.Draft.TemplateID)
	require.Equal(t, "Promo 2", e.Draft.Document.Name)
	require.Equal(t, []string{"image", "content", "title", "footer"}, e.Draft.Document.Sections)
	require.Equal(t, "Sale", e.Draft.Document.Content["title"])

	require.Equal(t, http.StatusNoContent, do(g, http.MethodDelete, "/api/drafts/"+draftID, "").Code)
	w = do(g, http.MethodGet, "/api/drafts/"+draftID, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Draft not found", decode(t, w).Error)
}

func TestLayouts(t *testing.T) {
	g := newRouter(t)

	w := do(g, http.MethodGet, "/api/getEmailLayout", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "{{title}}")

	w = do(g, http.MethodGet, "/api/getEmailLayout?name=default", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(g, http.MethodGet, "/api/getEmailLayout?name=../secret", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(g, http.MethodGet, "/api/getEmailLayout?name=nope.html", "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = do(g, http.MethodGet, "/api/layouts", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "default.html")
}

func upload(g *gin.Engine, field, filename string, data []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile(field, filename)
	_, _ = fw.Write(data)
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/uploadImage", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)
	return w
}

func TestUploadImage(t *testing.T) {
	g := newRouter(t)
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

	w := upload(g, "image", "hero.png", png)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out struct {
		ImageURL string `json:"imageUrl"`
		URL      string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	require.True(t, strings.HasPrefix(out.ImageURL, "http://localhost:5000/uploads/images/"), out.ImageURL)
	require.Equal(t, out.ImageURL, out.URL)

	require.Equal(t, http.StatusOK, upload(g, "file", "hero.png", png).Code)
	require.Equal(t, http.StatusBadRequest, upload(g, "other", "hero.png", png).Code)
	require.Equal(t, http.StatusBadRequest, upload(g, "image", "notes.txt", []byte("plain text here")).Code)
	require.Equal(t, http.StatusRequestEntityTooLarge, upload(g, "image", "big.png", append(png, make([]byte, 2048)...)).Code)

	// larger than the limit plus multipart slack: the body read itself fails
	w = upload(g, "image", "huge.png", append(png, make([]byte, 2<<20)...))
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code, w.Body.String())
	require.Equal(t, "Image exceeds size limit", decode(t, w).Error)
}
