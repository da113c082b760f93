package routes

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"booking-app/config"
	adminapi "booking-app/internal/api/admin"
	authapi "booking-app/internal/api/auth"
	bookingsapi "booking-app/internal/api/bookings"
	columnsapi "booking-app/internal/api/columns"
	mediaapi "booking-app/internal/api/media"
	plansapi "booking-app/internal/api/plans"
	profilesapi "booking-app/internal/api/profiles"
	siteapi "booking-app/internal/api/site"
	"booking-app/internal/infra/cloudinary"
	"booking-app/internal/infra/docstore"
	"booking-app/internal/infra/docstore/memory"
	"booking-app/internal/records"
	"booking-app/internal/reservations"
	"booking-app/internal/roster"
	"booking-app/internal/schema"
	"booking-app/internal/siteinfo"
	"booking-app/internal/tablegen"
	"booking-app/internal/workflow"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "s3cret-pass"
)

type stubUploader struct{ folder string }

func (s *stubUploader) Upload(_ context.Context, r io.Reader, filename, folder string) (cloudinary.Result, error) {
	_, contentType, err := cloudinary.Check(r)
	if err != nil {
		return cloudinary.Result{}, err
	}
	s.folder = folder
	return cloudinary.Result{URL: "https://cdn.example.com/" + folder + "/" + filename, PublicID: folder + "/x", ContentType: contentType, Size: 42}, nil
}

type env struct {
	r        *gin.Engine
	token    string
	registry *schema.Registry
	records  *records.Store
	bookings *reservations.Store
	profiles *roster.Store
}

func setup(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	config.JWT_SECRET = "test-secret"
	config.ADMIN_EMAIL = adminEmail
	config.ADMIN_PASSWORD_HASH = string(hash)

	client := docstore.NewClient(memory.New())
	registry := schema.NewRegistry(client)
	registry.Start(context.Background())
	t.Cleanup(registry.Stop)
	require.Eventually(t, func() bool { return len(registry.Columns()) == 5 }, time.Second, 5*time.Millisecond)

	recs := records.NewStore(client, registry)
	recs.Start(context.Background())
	t.Cleanup(recs.Stop)
	require.Eventually(t, recs.Ready, time.Second, 5*time.Millisecond)

	bookingStore := reservations.NewStore(client)
	bookingStore.Start(context.Background())
	t.Cleanup(bookingStore.Stop)
	profileStore := roster.NewStore(client)
	profileStore.Start(context.Background())
	t.Cleanup(profileStore.Stop)
	require.Eventually(t, func() bool { return bookingStore.Ready() && profileStore.Ready() }, time.Second, 5*time.Millisecond)

	gen := tablegen.NewGenerator(registry)
	t.Cleanup(gen.Close)
	flow := workflow.New(registry, recs, gen)

	media := mediaapi.New(&stubUploader{}, client)
	r := gin.New()
	RegisterRoutes(r, Handlers{
		Admin:    adminapi.New(registry, recs, bookingStore, profileStore, flow),
		Columns:  columnsapi.New(registry, flow),
		Plans:    plansapi.New(recs, gen, flow),
		Media:    media,
		Bookings: bookingsapi.New(bookingStore, flow),
		Profiles: profilesapi.New(profileStore, media, flow),
		Site:     siteapi.New(siteinfo.NewStore(client), media, flow),
	})

	token, err := authapi.IssueToken(adminEmail, time.Now())
	require.NoError(t, err)
	return &env{r: r, token: token, registry: registry, records: recs, bookings: bookingStore, profiles: profileStore}
}

func (e *env) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func (e *env) upload(t *testing.T, path string, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("file", "a.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.token)
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func validPlan(title string) map[string]any {
	return map[string]any{"title": title, "rate1": "₹5000", "rate2": "₹9000", "rate3": 15000}
}

func TestHealthAndLogin(t *testing.T) {
	e := setup(t)

	w := e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	anon := &env{r: e.r}
	w = anon.do(t, http.MethodGet, "/admin/columns", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = anon.do(t, http.MethodPost, "/admin/login", map[string]string{"email": adminEmail, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = anon.do(t, http.MethodPost, "/admin/login", map[string]string{"email": adminEmail, "password": adminPassword})
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)

	anon.token = token
	w = anon.do(t, http.MethodGet, "/admin/columns", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestColumnEndpoints(t *testing.T) {
	e := setup(t)

	w := e.do(t, http.MethodGet, "/admin/columns", nil)
	require.Equal(t, http.StatusOK, w.Code)
	cols := decode(t, w)["columns"].([]any)
	require.Len(t, cols, 5)
	titleID := cols[0].(map[string]any)["id"].(string)

	w = e.do(t, http.MethodPost, "/admin/columns", map[string]any{"title": "Notes", "dataIndex": "notes", "type": "text"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	notesID := decode(t, w)["id"].(string)
	require.Eventually(t, func() bool { return len(e.registry.Columns()) == 6 }, time.Second, 5*time.Millisecond)

	w = e.do(t, http.MethodPost, "/admin/columns", map[string]any{"title": "Other", "dataIndex": "notes"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "dataIndex", decode(t, w)["field"])

	w = e.do(t, http.MethodPost, "/admin/columns", map[string]any{"title": "Call", "dataIndex": "call", "type": "button"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/admin/columns", map[string]any{"title": "", "dataIndex": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "title", decode(t, w)["field"])

	w = e.do(t, http.MethodDelete, "/admin/columns/"+titleID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = e.do(t, http.MethodPut, "/admin/columns/"+notesID, map[string]any{"title": "Remarks", "dataIndex": "notes", "type": "text", "required": false})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Remarks", decode(t, w)["title"])

	w = e.do(t, http.MethodPut, "/admin/columns/missing", map[string]any{"title": "X", "dataIndex": "x2"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodDelete, "/admin/columns/"+notesID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Eventually(t, func() bool { return len(e.registry.Columns()) == 5 }, time.Second, 5*time.Millisecond)

	w = e.do(t, http.MethodGet, "/admin/columns/table", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rows := decode(t, w)["rows"].([]any)
	assert.Len(t, rows, 5)
}

func TestPlanEndpoints(t *testing.T) {
	e := setup(t)

	w := e.do(t, http.MethodPost, "/admin/plans", map[string]any{"title": "VIP"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "rate1", decode(t, w)["field"])

	w = e.do(t, http.MethodPost, "/admin/plans", validPlan("New Delhi Branch"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	id := created["id"].(string)
	assert.Equal(t, "15000", created["fields"].(map[string]any)["rate3"])

	w = e.do(t, http.MethodPost, "/admin/plans", validPlan("<b>Jaipur</b>"))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Jaipur", decode(t, w)["fields"].(map[string]any)["title"])

	require.Eventually(t, func() bool { return len(e.records.Plans()) == 2 }, time.Second, 5*time.Millisecond)

	w = e.do(t, http.MethodGet, "/admin/plans?q=DELHI", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)
	assert.EqualValues(t, 1, list["total"])

	w = e.do(t, http.MethodGet, "/admin/plans/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.do(t, http.MethodGet, "/admin/plans/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodGet, "/admin/plans/table", nil)
	require.Equal(t, http.StatusOK, w.Code)
	table := decode(t, w)
	tcols := table["columns"].([]any)
	require.Len(t, tcols, 6)
	assert.Equal(t, "Actions", tcols[5].(map[string]any)["label"])
	rows := table["rows"].([]any)
	require.Len(t, rows, 2)
	// newest first
	firstCells := rows[0].(map[string]any)["cells"].([]any)
	assert.Equal(t, "Jaipur", firstCells[0].(map[string]any)["text"])

	w = e.do(t, http.MethodGet, "/plans", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["columns"].([]any), 5)

	w = e.do(t, http.MethodGet, "/admin/plans/"+id+"/form", nil)
	require.Equal(t, http.StatusOK, w.Code)
	fields := decode(t, w)["fields"].([]any)
	require.Len(t, fields, 4)
	assert.Equal(t, "New Delhi Branch", fields[0].(map[string]any)["value"])
	assert.Equal(t, "₹ 0000", fields[1].(map[string]any)["placeholder"])

	update := validPlan("Delhi Airport")
	w = e.do(t, http.MethodPut, "/admin/plans/"+id, map[string]any{"fields": update})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.do(t, http.MethodPut, "/admin/plans/missing", update)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodDelete, "/admin/plans/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = e.do(t, http.MethodDelete, "/admin/plans/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Eventually(t, func() bool { return len(e.records.Plans()) == 1 }, time.Second, 5*time.Millisecond)

	w = e.do(t, http.MethodGet, "/admin/workflow", nil)
	require.Equal(t, http.StatusOK, w.Code)
	state := decode(t, w)
	assert.Equal(t, "idle", state["records"].(map[string]any)["phase"])
	assert.NotEmpty(t, state["notices"])

	w = e.do(t, http.MethodGet, "/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["plans"].(map[string]any)["count"])
}

func TestSanitizerKeepsTypedText(t *testing.T) {
	e := setup(t)

	w := e.do(t, http.MethodPost, "/admin/plans", validPlan("Tom & Jerry's <b>VIP</b>"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "Tom & Jerry's VIP", created["fields"].(map[string]any)["title"])

	id := created["id"].(string)
	require.Eventually(t, func() bool { return len(e.records.Plans()) == 1 }, time.Second, 5*time.Millisecond)
	stored, ok := e.records.Get(id)
	require.True(t, ok)
	title, _ := stored.Value("title")
	assert.Equal(t, "Tom & Jerry's VIP", title)

	w = e.do(t, http.MethodGet, "/admin/plans?q="+url.QueryEscape("tom & jerry"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	w = e.do(t, http.MethodPost, "/admin/columns", map[string]any{"title": "Terms & <i>Conditions</i>", "dataIndex": "terms"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Terms & Conditions", decode(t, w)["title"])
}

func TestPlanListHugePage(t *testing.T) {
	e := setup(t)

	w := e.do(t, http.MethodPost, "/admin/plans", validPlan("Agra"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Eventually(t, func() bool { return len(e.records.Plans()) == 1 }, time.Second, 5*time.Millisecond)

	w = e.do(t, http.MethodGet, "/admin/plans?page=1000000000000000000", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	list := decode(t, w)
	assert.Empty(t, list["plans"])
	assert.EqualValues(t, 1, list["total"])

	w = e.do(t, http.MethodGet, "/admin/plans/table?page=1000000000000000000", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, decode(t, w)["rows"])
}

func TestMediaUpload(t *testing.T) {
	e := setup(t)

	w := e.upload(t, "/admin/media", map[string]string{"folder": "girls"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	img := decode(t, w)
	assert.Equal(t, "https://cdn.example.com/girls/a.png", img["url"])
	assert.Equal(t, "image/png", img["contentType"])

	w = e.do(t, http.MethodGet, "/admin/media", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["images"].([]any), 1)

	w = e.do(t, http.MethodPost, "/admin/media", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func bookingRequest(name string) map[string]any {
	return map[string]any{
		"fullName": name,
		"location": "Delhi",
		"email":    "guest@example.com",
		"phone":    "+91 98765 43210",
		"dateTime": time.Now().Add(48 * time.Hour).Format("2006-01-02 15:04"),
	}
}

func TestBookingEndpoints(t *testing.T) {
	e := setup(t)
	anon := &env{r: e.r}

	bad := bookingRequest("Asha")
	bad["email"] = "asha@"
	w := anon.do(t, http.MethodPost, "/bookings", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email", decode(t, w)["field"])

	w = anon.do(t, http.MethodPost, "/bookings", bookingRequest("Asha & <b>Ravi</b>"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	id := created["id"].(string)
	assert.Equal(t, "pending", created["status"])

	w = e.do(t, http.MethodPost, "/admin/bookings", bookingRequest("Vikram"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Eventually(t, func() bool { return len(e.bookings.Bookings()) == 2 }, time.Second, 5*time.Millisecond)

	w = anon.do(t, http.MethodGet, "/admin/bookings", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(t, http.MethodGet, "/admin/bookings?q=ravi", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)
	assert.EqualValues(t, 1, list["total"])
	first := list["bookings"].([]any)[0].(map[string]any)
	assert.Equal(t, "Asha & Ravi", first["fullName"])

	w = e.do(t, http.MethodPut, "/admin/bookings/"+id+"/complete", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "completed", decode(t, w)["status"])
	require.Eventually(t, func() bool { return e.bookings.Stats().Completed == 1 }, time.Second, 5*time.Millisecond)

	w = e.do(t, http.MethodGet, "/admin/bookings?status=completed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list = decode(t, w)
	assert.EqualValues(t, 1, list["total"])
	assert.EqualValues(t, 1, list["stats"].(map[string]any)["pending"])

	w = e.do(t, http.MethodPut, "/admin/bookings/missing/complete", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodDelete, "/admin/bookings/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Eventually(t, func() bool { return len(e.bookings.Bookings()) == 1 }, time.Second, 5*time.Millisecond)

	w = e.do(t, http.MethodGet, "/admin/bookings/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodGet, "/admin/workflow", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "idle", decode(t, w)["bookings"].(map[string]any)["phase"])
}

func TestProfileEndpoints(t *testing.T) {
	e := setup(t)

	w := e.do(t, http.MethodPost, "/admin/profiles", map[string]any{"name": "Riya", "age": 17, "location": "Jaipur", "rate": "₹5000/hour", "phone": "9876543210"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "age", decode(t, w)["field"])

	w = e.do(t, http.MethodPost, "/admin/profiles", map[string]any{"name": "Riya", "age": 24, "location": "Jaipur", "rate": "₹5000/hour", "phone": "9876543210"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := decode(t, w)["id"].(string)
	require.Eventually(t, func() bool { _, ok := e.profiles.Get(id); return ok }, time.Second, 5*time.Millisecond)

	w = e.upload(t, "/admin/profiles/"+id+"/image", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "https://cdn.example.com/girls-profiles/a.png", decode(t, w)["imageUrl"])

	w = e.upload(t, "/admin/profiles/missing/image", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = e.do(t, http.MethodPut, "/admin/profiles/"+id, map[string]any{"name": "Riya S", "age": 25, "location": "Jaipur", "rate": "₹6000/hour", "phone": "9876543210", "status": "unavailable"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode(t, w)
	assert.Equal(t, "Riya S", updated["name"])
	assert.Equal(t, "https://cdn.example.com/girls-profiles/a.png", updated["imageUrl"])

	require.Eventually(t, func() bool {
		p, _ := e.profiles.Get(id)
		return p.Name == "Riya S"
	}, time.Second, 5*time.Millisecond)

	w = e.do(t, http.MethodGet, "/admin/profiles?q=jaipur", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])

	w = (&env{r: e.r}).do(t, http.MethodGet, "/profiles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode(t, w)["profiles"], "unavailable profiles stay off the public list")

	w = e.do(t, http.MethodDelete, "/admin/profiles/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Eventually(t, func() bool { return len(e.profiles.Profiles()) == 0 }, time.Second, 5*time.Millisecond)
}

func TestSettingsEndpoints(t *testing.T) {
	e := setup(t)
	anon := &env{r: e.r}

	w := anon.do(t, http.MethodGet, "/site", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "", decode(t, w)["contactNumber1"])

	w = e.do(t, http.MethodPut, "/admin/settings", map[string]any{"contactNumber1": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "contactNumber1", decode(t, w)["field"])

	w = e.do(t, http.MethodPut, "/admin/settings", map[string]any{"contactNumber1": "9876543210", "contactNumber2": "9123456780"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = e.upload(t, "/admin/settings/logo", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "https://cdn.example.com/website_logos/a.png", decode(t, w)["logoUrl"])

	w = anon.do(t, http.MethodGet, "/site", nil)
	require.Equal(t, http.StatusOK, w.Code)
	info := decode(t, w)
	assert.Equal(t, "9876543210", info["contactNumber1"])
	assert.Equal(t, "9123456780", info["contactNumber2"])
	assert.Equal(t, "https://cdn.example.com/website_logos/a.png", info["logoUrl"])

	w = anon.do(t, http.MethodPut, "/admin/settings", map[string]any{"contactNumber1": "9876543210"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDashboardCounts(t *testing.T) {
	e := setup(t)

	for _, name := range []string{"Asha", "Vikram", "Meera"} {
		w := e.do(t, http.MethodPost, "/admin/bookings", bookingRequest(name))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	w := e.do(t, http.MethodPost, "/admin/profiles", map[string]any{"name": "Riya", "age": 24, "location": "Jaipur", "rate": "₹5000/hour", "phone": "9876543210"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.Eventually(t, func() bool {
		return len(e.bookings.Bookings()) == 3 && len(e.profiles.Profiles()) == 1
	}, time.Second, 5*time.Millisecond)

	id := e.bookings.Bookings()[0].ID
	w = e.do(t, http.MethodPut, "/admin/bookings/"+id+"/complete", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Eventually(t, func() bool { return e.bookings.Stats().Completed == 1 }, time.Second, 5*time.Millisecond)

	w = e.do(t, http.MethodGet, "/admin/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode(t, w)
	b := dash["bookings"].(map[string]any)
	assert.EqualValues(t, 3, b["total"])
	assert.EqualValues(t, 2, b["pending"])
	assert.EqualValues(t, 1, b["completed"])
	assert.Equal(t, true, b["ready"])
	assert.EqualValues(t, 1, dash["profiles"].(map[string]any)["count"])
	assert.EqualValues(t, 5, dash["columns"].(map[string]any)["count"])
}

func TestColumnStream(t *testing.T) {
	e := setup(t)
	srv := httptest.NewServer(e.r)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/admin/columns/stream?token="+e.token, nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	var event, data string
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, "event:") {
			event = strings.TrimPrefix(line, "event:")
		}
		if strings.HasPrefix(line, "data:") {
			data = strings.TrimPrefix(line, "data:")
			break
		}
	}
	assert.Equal(t, "columns", event)
	assert.Contains(t, data, "Service Title")
}
