package mealdb

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"recipefinder/internal/config"
)

const teriyakiJSON = `{"meals":[{
	"idMeal":"52772",
	"strMeal":"Teriyaki Chicken Casserole",
	"strCategory":"Chicken",
	"strArea":"Japanese",
	"strInstructions":"Preheat oven to 350F.",
	"strMealThumb":"https://www.themealdb.com/images/media/meals/wvpsxx1468256321.jpg",
	"strYoutube":"https://www.youtube.com/watch?v=4aZr5hZXP_s",
	"strIngredient1":"soy sauce","strMeasure1":"3/4 cup",
	"strIngredient2":"water","strMeasure2":"1/2 cup",
	"strIngredient3":"","strMeasure3":" ",
	"strIngredient4":null,"strMeasure4":null,
	"strIngredient20":"garlic","strMeasure20":"",
	"strSource":null,
	"dateModified":null
}]}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(config.MealDBConfig{BaseURL: server.URL, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestSearchSendsTermAndParses(t *testing.T) {
	t.Parallel()

	var capturedReq *http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		_, _ = w.Write([]byte(teriyakiJSON))
	})

	meals, err := client.Search(t.Context(), "chicken & rice")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if capturedReq.URL.Path != "/search.php" {
		t.Fatalf("unexpected path %s", capturedReq.URL.Path)
	}
	if got := capturedReq.URL.Query().Get("s"); got != "chicken & rice" {
		t.Fatalf("unexpected term %q", got)
	}
	if len(meals) != 1 {
		t.Fatalf("expected 1 meal, got %d", len(meals))
	}
	m := meals[0]
	if m.ID != "52772" || m.Name != "Teriyaki Chicken Casserole" || m.Area != "Japanese" {
		t.Fatalf("unexpected meal %+v", m)
	}
	if m.Source != "" {
		t.Fatalf("null source should decode as blank, got %q", m.Source)
	}
	if len(m.Ingredients) != 3 {
		t.Fatalf("expected 3 ingredients, got %+v", m.Ingredients)
	}
	if m.Ingredients[2].Name != "garlic" || m.Ingredients[2].Measure != "" {
		t.Fatalf("unexpected last ingredient %+v", m.Ingredients[2])
	}
}

func TestSearchNoMatches(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meals":null}`))
	})

	meals, err := client.Search(t.Context(), "zzzz")
	if err != nil {
		t.Fatalf("no matches must not be an error: %v", err)
	}
	if meals == nil || len(meals) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", meals)
	}
}

func TestSearchMalformed(t *testing.T) {
	t.Parallel()
	for name, body := range map[string]string{
		"not json":     `<html>oops</html>`,
		"no meals key": `{"recipes":[]}`,
		"meals string": `{"meals":"Invalid ID"}`,
		"meal number":  `{"meals":[1,2]}`,
	} {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			if _, err := client.Search(t.Context(), "x"); !errors.Is(err, ErrMalformed) {
				t.Fatalf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestSearchStatusError(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	})

	_, err := client.Search(t.Context(), "x")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("unexpected status %d", statusErr.StatusCode)
	}
}

func TestSearchRetriesServerErrors(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(teriyakiJSON))
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(config.MealDBConfig{BaseURL: server.URL, RetryMax: 1})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	meals, err := client.Search(t.Context(), "chicken")
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if len(meals) != 1 || calls.Load() != 2 {
		t.Fatalf("expected 1 meal after 2 calls, got %d meals and %d calls", len(meals), calls.Load())
	}
}

func TestRandomAndLookup(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/random.php":
			_, _ = w.Write([]byte(teriyakiJSON))
		case r.URL.Path == "/lookup.php" && r.URL.Query().Get("i") == "52772":
			_, _ = w.Write([]byte(teriyakiJSON))
		default:
			_, _ = w.Write([]byte(`{"meals":null}`))
		}
	})

	meal, err := client.Random(t.Context())
	if err != nil || meal == nil || meal.ID != "52772" {
		t.Fatalf("unexpected random result %+v, %v", meal, err)
	}

	meal, err = client.Lookup(t.Context(), "52772")
	if err != nil || meal.Name != "Teriyaki Chicken Casserole" {
		t.Fatalf("unexpected lookup result %+v, %v", meal, err)
	}

	if _, err := client.Lookup(t.Context(), "1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRandomEmpty(t *testing.T) {
	t.Parallel()
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meals":null}`))
	})
	meal, err := client.Random(t.Context())
	if err != nil || meal != nil {
		t.Fatalf("expected nil meal and nil error, got %+v, %v", meal, err)
	}
}

func TestMockSearch(t *testing.T) {
	m := NewMock()
	meals, _ := m.Search(t.Context(), "CHICKEN")
	if len(meals) != 1 || meals[0].ID != "52772" {
		t.Fatalf("unexpected mock results %+v", meals)
	}
	meals, _ = m.Search(t.Context(), "nothing like this")
	if meals == nil || len(meals) != 0 {
		t.Fatalf("expected empty result, got %#v", meals)
	}
	for _, meal := range m.Meals {
		if !strings.HasPrefix(meal.Thumbnail, "https://") {
			t.Errorf("mock meal %s has no thumbnail", meal.ID)
		}
	}
}
