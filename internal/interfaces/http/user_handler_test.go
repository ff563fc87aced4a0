package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/cartelera-api/internal/application/dto"
	"github.com/jhoicas/cartelera-api/internal/application/provisioning"
	"github.com/jhoicas/cartelera-api/internal/application/usecase"
	"github.com/jhoicas/cartelera-api/internal/domain"
	"github.com/jhoicas/cartelera-api/internal/domain/entity"
	"github.com/jhoicas/cartelera-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/cartelera-api/internal/interfaces/http"
	"github.com/jhoicas/cartelera-api/internal/testutil"
	pkgjwt "github.com/jhoicas/cartelera-api/pkg/jwt"
)

type apiFixture struct {
	app      *fiber.App
	users    *testutil.UserStore
	idp      *testutil.IdentityProvider
	notifier *testutil.Notifier
	metrics  *metrics.Metrics
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	f := &apiFixture{
		users:    testutil.NewUserStore(),
		idp:      &testutil.IdentityProvider{Token: "tok-1", Ref: "abc-123"},
		notifier: &testutil.Notifier{},
		metrics:  metrics.New(),
	}
	saga := provisioning.NewSaga(f.users, f.idp,
		provisioning.Config{StepTimeout: time.Second, BcryptCost: bcrypt.MinCost}, zerolog.Nop(), f.metrics)

	f.app = fiber.New()
	f.app.Use(apphttp.MetricsMiddleware(f.metrics))
	apphttp.Router(f.app, apphttp.RouterDeps{
		UserUC:   usecase.NewUserUseCase(f.users, saga, bcrypt.MinCost),
		CourseUC: usecase.NewCourseUseCase(testutil.NewCourseStore(), f.notifier, zerolog.Nop()),
		ScreenUC: usecase.NewScreenUseCase(testutil.NewScreenStore()),
		RoleUC:   usecase.NewRoleUseCase(testutil.RoleStore{}),
		Keyfunc:  pkgjwt.HMACKeyfunc(testJWTSecret),
		Issuer:   testIssuer,
		Logger:   zerolog.Nop(),
	})
	return f
}

func (f *apiFixture) do(t *testing.T, method, path string, body any, auth string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

var anaReq = dto.CreateUserRequest{DNI: "30111222", Name: "Ana", Password: "secret", RoleID: 2}

func TestCreateUser_201(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodPost, "/api/users", anaReq, bearer(t, "admin"))

	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var out dto.UserResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "30111222", out.DNI)
	require.NotNil(t, out.IDKeycloak)
	assert.Equal(t, "abc-123", *out.IDKeycloak)
	assert.NotContains(t, string(body), "secret")
	assert.NotContains(t, string(body), "password")
}

func TestCreateUser_409Duplicado(t *testing.T) {
	f := newAPI(t)
	f.users.Seed(&entity.User{DNI: anaReq.DNI, Name: "Ana", RoleID: 2})

	resp, body := f.do(t, http.MethodPost, "/api/users", anaReq, bearer(t, "admin"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(body), "DUPLICATE_USER")
	assert.Equal(t, 0, f.idp.RemoteCalls())
}

func TestCreateUser_502SinDetalleUpstream(t *testing.T) {
	f := newAPI(t)
	f.idp.TokenErr = fmt.Errorf("%w: token endpoint respondió 500: {\"error\":\"detalle interno\"}", domain.ErrAuthProviderUnavailable)

	resp, body := f.do(t, http.MethodPost, "/api/users", anaReq, bearer(t, "admin"))
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, string(body), "PROVISIONING_FAILED")
	assert.NotContains(t, string(body), "detalle interno")
	assert.Equal(t, 0, f.users.Len())
}

func TestCreateUser_400Validacion(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodPost, "/api/users", dto.CreateUserRequest{DNI: "1"}, bearer(t, "admin"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "VALIDATION")
}

func TestCreateUser_403SinRolAdmin(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.do(t, http.MethodPost, "/api/users", anaReq, bearer(t, "operador"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, 0, f.users.Len())
}

func TestPageUsers_Envelope(t *testing.T) {
	f := newAPI(t)
	for i := 0; i < 25; i++ {
		f.users.Seed(&entity.User{DNI: fmt.Sprintf("%08d", i), Name: "U", RoleID: 2})
	}

	resp, body := f.do(t, http.MethodGet, "/api/users/page?page=2&limit=10", nil, bearer(t, "operador"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Len(t, out["data"], 10)
	assert.EqualValues(t, 25, out["total"])
	assert.EqualValues(t, 2, out["page"])
	assert.EqualValues(t, 10, out["limit"])
	assert.EqualValues(t, 3, out["totalPages"])
}

func TestMe_UsaSubDelToken(t *testing.T) {
	f := newAPI(t)
	ref := testSubject
	f.users.Seed(&entity.User{DNI: "1", Name: "Ana", RoleID: 2, IDKeycloak: &ref})

	resp, body := f.do(t, http.MethodGet, "/api/users/me", nil, bearer(t, "operador"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"dni":"1"`)
}

func TestGetUser_404YIDInvalido(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.do(t, http.MethodGet, "/api/users/99", nil, bearer(t, "operador"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/users/abc", nil, bearer(t, "operador"))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteUser_Logico(t *testing.T) {
	f := newAPI(t)
	u := &entity.User{DNI: "1", Name: "Ana", RoleID: 2}
	f.users.Seed(u)

	resp, _ := f.do(t, http.MethodDelete, fmt.Sprintf("/api/users/%d", u.ID), nil, bearer(t, "admin"))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1, f.users.Len(), "la fila sigue, solo se marca como borrada")

	resp, _ = f.do(t, http.MethodGet, fmt.Sprintf("/api/users/%d", u.ID), nil, bearer(t, "admin"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCourses_CrudNotifica(t *testing.T) {
	f := newAPI(t)
	auth := bearer(t, "operador")

	resp, body := f.do(t, http.MethodPost, "/api/courses", dto.CreateCourseRequest{Title: "Álgebra", Classroom: "A1"}, auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var created dto.CourseResponse
	require.NoError(t, json.Unmarshal(body, &created))

	resp, _ = f.do(t, http.MethodDelete, fmt.Sprintf("/api/courses/%d", created.ID), nil, auth)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.Len(t, f.notifier.Events, 2)
	assert.Equal(t, "created", f.notifier.Events[0].Action)
	assert.Equal(t, "deleted", f.notifier.Events[1].Action)
}

func TestScreens_404TrasBorrado(t *testing.T) {
	f := newAPI(t)
	auth := bearer(t, "operador")

	resp, body := f.do(t, http.MethodPost, "/api/screens", dto.CreateScreenRequest{Name: "Hall"}, auth)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.ScreenResponse
	require.NoError(t, json.Unmarshal(body, &created))

	resp, _ = f.do(t, http.MethodDelete, fmt.Sprintf("/api/screens/%d", created.ID), nil, auth)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, fmt.Sprintf("/api/screens/%d", created.ID), nil, auth)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRoles_List(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodGet, "/api/roles", nil, bearer(t, "operador"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"id":1,"name":"admin"},{"id":2,"name":"operador"}]`, string(body))
}

func TestMetricsMiddleware_RegistraAltas(t *testing.T) {
	f := newAPI(t)
	f.do(t, http.MethodPost, "/api/users", anaReq, bearer(t, "admin"))

	rec := httptest.NewRecorder()
	f.metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	out := rec.Body.String()
	assert.Contains(t, out, `cartelera_user_provisioning_total{result="linked"} 1`)
	assert.Contains(t, out, `cartelera_http_requests_total{method="POST"`)
}
