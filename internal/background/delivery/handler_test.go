package delivery

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	bgdomain "quotepush-backend/internal/background/domain"
	"quotepush-backend/internal/background/repository"

	"github.com/gin-gonic/gin"
)

type fakeBackgroundRepo struct {
	backgrounds []bgdomain.Background

	cleanQueries []bool
	updatedID    string
	updatedClean bool
	updateErr    error
}

func (f *fakeBackgroundRepo) Create(background *bgdomain.Background) error { return nil }

func (f *fakeBackgroundRepo) FindAllMetadata() ([]bgdomain.Background, error) {
	return f.backgrounds, nil
}

func (f *fakeBackgroundRepo) FindByCleanMetadata(clean bool) ([]bgdomain.Background, error) {
	f.cleanQueries = append(f.cleanQueries, clean)
	var matched []bgdomain.Background
	for _, bg := range f.backgrounds {
		if bg.Clean == clean {
			matched = append(matched, bg)
		}
	}
	return matched, nil
}

func (f *fakeBackgroundRepo) FindByID(id string) (*bgdomain.Background, error) {
	for i := range f.backgrounds {
		if f.backgrounds[i].ID == id {
			return &f.backgrounds[i], nil
		}
	}
	return nil, nil
}

func (f *fakeBackgroundRepo) UpdateClean(id string, clean bool) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updatedID = id
	f.updatedClean = clean
	return nil
}

func (f *fakeBackgroundRepo) Delete(id string) error { return nil }

func newBackgroundRouter(repo repository.BackgroundRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewBackgroundHandler(repo)

	r := gin.New()
	r.GET("/backgrounds/clean", handler.ListCleanBackgrounds)
	r.GET("/backgrounds/notClean", handler.ListNotCleanBackgrounds)
	r.PATCH("/backgrounds/:id/clean", handler.MarkBackgroundClean)
	return r
}

func TestListBackgroundsByCleanFlag(t *testing.T) {
	repo := &fakeBackgroundRepo{backgrounds: []bgdomain.Background{
		{ID: "bg-1", Filename: "a.jpg", Clean: true},
		{ID: "bg-2", Filename: "b.jpg", Clean: false},
	}}
	router := newBackgroundRouter(repo)

	tests := []struct {
		path      string
		wantClean bool
		wantID    string
	}{
		{"/backgrounds/clean", true, "bg-1"},
		{"/backgrounds/notClean", false, "bg-2"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			if !strings.Contains(w.Body.String(), tt.wantID) {
				t.Errorf("body %s does not contain %s", w.Body.String(), tt.wantID)
			}
		})
	}
	if len(repo.cleanQueries) != 2 || repo.cleanQueries[0] != true || repo.cleanQueries[1] != false {
		t.Errorf("clean queries = %v, want [true false]", repo.cleanQueries)
	}
}

func TestMarkBackgroundClean(t *testing.T) {
	repo := &fakeBackgroundRepo{}
	router := newBackgroundRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/backgrounds/bg-1/clean", strings.NewReader(`{"clean": true}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	if repo.updatedID != "bg-1" || repo.updatedClean != true {
		t.Errorf("update recorded as (%q, %v), want (bg-1, true)", repo.updatedID, repo.updatedClean)
	}
}

func TestMarkBackgroundClean_FalseIsAccepted(t *testing.T) {
	repo := &fakeBackgroundRepo{backgrounds: []bgdomain.Background{{ID: "bg-1", Clean: true}}}
	router := newBackgroundRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/backgrounds/bg-1/clean", strings.NewReader(`{"clean": false}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	if repo.updatedID != "bg-1" || repo.updatedClean != false {
		t.Errorf("update recorded as (%q, %v), want (bg-1, false)", repo.updatedID, repo.updatedClean)
	}
}

func TestMarkBackgroundClean_MissingFlag(t *testing.T) {
	router := newBackgroundRouter(&fakeBackgroundRepo{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/backgrounds/bg-1/clean", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestMarkBackgroundClean_UnknownID(t *testing.T) {
	router := newBackgroundRouter(&fakeBackgroundRepo{updateErr: repository.ErrNotFound})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/backgrounds/missing/clean", strings.NewReader(`{"clean": true}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
