package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/clinicware/go-clinic-console/api"
	"github.com/clinicware/go-clinic-console/internal/config"
	apperrors "github.com/clinicware/go-clinic-console/internal/errors"
	"github.com/clinicware/go-clinic-console/records"
	"github.com/clinicware/go-clinic-console/session"
	"github.com/clinicware/go-clinic-console/session/repofake"
)

const (
	staleToken   = "stale-token"
	freshToken   = "fresh-token"
	refreshToken = "refresh-token"
)

// testFixture holds all test dependencies
type testFixture struct {
	store  *repofake.FakeSessionStore
	server *httptest.Server
	client *api.Client

	lock         sync.Mutex
	refreshCalls int
	listCalls    int
}

func setupTestFixture(t *testing.T, handler func(f *testFixture, mux *http.ServeMux), options ...api.Option) *testFixture {
	t.Helper()

	f := &testFixture{store: repofake.NewFakeSessionStore()}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		f.lock.Lock()
		f.refreshCalls++
		f.lock.Unlock()

		// Keep the refresh in flight long enough for concurrent 401s to
		// pile onto the shared call.
		time.Sleep(50 * time.Millisecond)

		var body struct {
			Refresh string `json:"refresh"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Refresh != refreshToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(t, w, map[string]string{"access": freshToken})
	})
	if handler != nil {
		handler(f, mux)
	}
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)

	t.Setenv("SERVICE_URL", f.server.URL)
	f.client = api.New(config.New(), f.store, zerolog.Nop(), options...)
	return f
}

func (f *testFixture) login() {
	_ = f.store.Set(&session.Session{
		AccessToken:  staleToken,
		RefreshToken: refreshToken,
		Username:     "jane",
	})
}

func (f *testFixture) countRefreshCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.refreshCalls
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func bearer(r *http.Request) string {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) {
		return ""
	}
	return h[len(prefix):]
}

func TestRequestWithoutSession(t *testing.T) {
	f := setupTestFixture(t, func(f *testFixture, mux *http.ServeMux) {
		mux.HandleFunc("GET /api/patient_list/", func(w http.ResponseWriter, r *http.Request) {
			f.lock.Lock()
			f.listCalls++
			f.lock.Unlock()
		})
	})

	_, err := f.client.ListPatients(context.Background(), records.ListQuery{Page: 1, SortBy: "id", Order: records.OrderAscending})
	require.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	require.Zero(t, f.listCalls)
}

func TestRefreshRetrySucceeds(t *testing.T) {
	f := setupTestFixture(t, func(f *testFixture, mux *http.ServeMux) {
		mux.HandleFunc("GET /api/patient_list/", func(w http.ResponseWriter, r *http.Request) {
			if bearer(r) != freshToken {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			writeJSON(t, w, records.PatientPage{
				Patients: []records.Patient{{ID: 1, FullName: "A"}},
				NumPages: 3,
			})
		})
	})
	f.login()

	page, err := f.client.ListPatients(context.Background(), records.ListQuery{Page: 1, SortBy: "id", Order: records.OrderAscending})
	require.NoError(t, err)
	require.Len(t, page.Patients, 1)
	require.Equal(t, 3, page.NumPages)

	require.Equal(t, 1, f.countRefreshCalls())
	sess, err := f.store.Get()
	require.NoError(t, err)
	require.Equal(t, freshToken, sess.AccessToken)
}

func TestRefreshFailureDoesNotLoop(t *testing.T) {
	var listCalls int
	f := setupTestFixture(t, func(f *testFixture, mux *http.ServeMux) {
		mux.HandleFunc("GET /api/patient_list/", func(w http.ResponseWriter, r *http.Request) {
			listCalls++
			w.WriteHeader(http.StatusUnauthorized)
		})
	})
	f.login()
	// Break the stored refresh token so the refresh endpoint rejects it.
	require.NoError(t, f.store.Set(&session.Session{
		AccessToken:  staleToken,
		RefreshToken: "revoked",
		Username:     "jane",
	}))

	_, err := f.client.ListPatients(context.Background(), records.ListQuery{Page: 1, SortBy: "id", Order: records.OrderAscending})
	require.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	require.Equal(t, 1, listCalls)
	require.Equal(t, 1, f.countRefreshCalls())
}

func TestRetriedRequestStill401(t *testing.T) {
	var listCalls int
	f := setupTestFixture(t, func(f *testFixture, mux *http.ServeMux) {
		mux.HandleFunc("GET /api/patient_list/", func(w http.ResponseWriter, r *http.Request) {
			listCalls++
			w.WriteHeader(http.StatusUnauthorized)
		})
	})
	f.login()

	_, err := f.client.ListPatients(context.Background(), records.ListQuery{Page: 1, SortBy: "id", Order: records.OrderAscending})
	require.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	// Original request plus exactly one retry, never more.
	require.Equal(t, 2, listCalls)
	require.Equal(t, 1, f.countRefreshCalls())
}

func TestOtherStatusesAreNotRetried(t *testing.T) {
	var listCalls int
	f := setupTestFixture(t, func(f *testFixture, mux *http.ServeMux) {
		mux.HandleFunc("GET /api/patient_list/", func(w http.ResponseWriter, r *http.Request) {
			listCalls++
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte("boom"))
		})
	})
	f.login()

	_, err := f.client.ListPatients(context.Background(), records.ListQuery{Page: 1, SortBy: "id", Order: records.OrderAscending})
	var reqErr *apperrors.RequestError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, http.StatusInternalServerError, reqErr.Status)
	require.Equal(t, "boom", reqErr.Body)
	require.Equal(t, 1, listCalls)
	require.Zero(t, f.countRefreshCalls())
}

func TestConcurrent401sShareOneRefresh(t *testing.T) {
	const callers = 5

	var barrier sync.WaitGroup
	barrier.Add(callers)

	f := setupTestFixture(t, func(f *testFixture, mux *http.ServeMux) {
		mux.HandleFunc("GET /api/patient_list/", func(w http.ResponseWriter, r *http.Request) {
			if bearer(r) != freshToken {
				// Hold every first attempt until all callers have arrived,
				// so their 401s resolve together.
				barrier.Done()
				barrier.Wait()
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			writeJSON(t, w, records.PatientPage{NumPages: 1})
		})
	})
	f.login()

	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.client.ListPatients(context.Background(), records.ListQuery{Page: 1, SortBy: "id", Order: records.OrderAscending})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, 1, f.countRefreshCalls())
}

func TestExpiredTokenRefreshesBeforeSending(t *testing.T) {
	f := setupTestFixture(t, func(f *testFixture, mux *http.ServeMux) {
		mux.HandleFunc("GET /api/patient_list/", func(w http.ResponseWriter, r *http.Request) {
			// The stale token must never reach the service.
			require.Equal(t, freshToken, bearer(r))
			writeJSON(t, w, records.PatientPage{NumPages: 1})
		})
	})

	expired := signedToken(t, time.Now().Add(-time.Hour))
	require.NoError(t, f.store.Set(&session.Session{
		AccessToken:  expired,
		RefreshToken: refreshToken,
		Username:     "jane",
	}))

	_, err := f.client.ListPatients(context.Background(), records.ListQuery{Page: 1, SortBy: "id", Order: records.OrderAscending})
	require.NoError(t, err)
	require.Equal(t, 1, f.countRefreshCalls())
}

func TestCreatePatientBody(t *testing.T) {
	var got map[string]any
	f := setupTestFixture(t, func(f *testFixture, mux *http.ServeMux) {
		mux.HandleFunc("POST /api/patients/", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusCreated)
		})
	})
	f.login()

	err := f.client.CreatePatient(context.Background(), records.Patient{
		FullName:    "A",
		Gender:      "F",
		PhoneNumber: "555",
		DateOfBirth: "2000-01-01",
		Address:     "X",
	})
	require.NoError(t, err)
	require.Equal(t, map[string]any{
		"full_name":     "A",
		"gender":        "F",
		"phone_number":  "555",
		"date_of_birth": "2000-01-01",
		"address":       "X",
	}, got)
}

func TestUpdateAndDeleteHitItemEndpoints(t *testing.T) {
	var putPath, deletePath string
	f := setupTestFixture(t, func(f *testFixture, mux *http.ServeMux) {
		mux.HandleFunc("PUT /api/patients/{id}/", func(w http.ResponseWriter, r *http.Request) {
			putPath = r.URL.Path
		})
		mux.HandleFunc("DELETE /api/assessments/{id}/", func(w http.ResponseWriter, r *http.Request) {
			deletePath = r.URL.Path
		})
	})
	f.login()

	require.NoError(t, f.client.UpdatePatient(context.Background(), 12, records.Patient{FullName: "B"}))
	require.Equal(t, "/api/patients/12/", putPath)

	require.NoError(t, f.client.DeleteAssessment(context.Background(), 7))
	require.Equal(t, "/api/assessments/7/", deletePath)
}

func TestListAssessmentsSendsEmptyFilters(t *testing.T) {
	var query map[string][]string
	f := setupTestFixture(t, func(f *testFixture, mux *http.ServeMux) {
		mux.HandleFunc("GET /api/assessments_list/", func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.Query()
			writeJSON(t, w, records.AssessmentPage{NumPages: 1})
		})
	})
	f.login()

	q := records.ListQuery{
		Page:   2,
		SortBy: "assessment_date",
		Order:  records.OrderDescending,
		Filters: map[string]string{
			records.FilterAssessmentType: "Nutrition",
			records.FilterPatient:        "",
			records.FilterDatePerformed:  "",
		},
	}
	_, err := f.client.ListAssessments(context.Background(), q)
	require.NoError(t, err)

	require.Equal(t, []string{"2"}, query["page"])
	require.Equal(t, []string{"assessment_date"}, query["sort_by"])
	require.Equal(t, []string{"desc"}, query["order"])
	require.Equal(t, []string{"Nutrition"}, query["assessment_type"])
	// Empty filters ride along as empty values rather than being omitted.
	require.Equal(t, []string{""}, query["patient"])
	require.Equal(t, []string{""}, query["date_performed"])
}

func signedToken(t *testing.T, expiry time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": expiry.Unix(),
	})
	signed, err := token.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}
