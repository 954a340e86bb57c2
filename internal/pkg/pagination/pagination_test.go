package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestNewParamsClamps(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
		wantOffset          int
	}{
		{1, 20, 1, 20, 0},
		{0, 0, 1, DefaultLimit, 0},
		{-3, 500, 1, MaxLimit, 0},
		{3, 10, 3, 10, 20},
	}

	for _, tc := range cases {
		p := NewParams(tc.page, tc.limit)
		if p.Page != tc.wantPage || p.Limit != tc.wantLimit || p.Offset != tc.wantOffset {
			t.Fatalf("NewParams(%d, %d) = %+v", tc.page, tc.limit, p)
		}
	}
}

func TestGetMeta(t *testing.T) {
	meta := GetMeta(NewParams(2, 10), 25)
	if meta.TotalPages != 3 || !meta.HasNext || !meta.HasPrev {
		t.Fatalf("unexpected meta %+v", meta)
	}

	empty := GetMeta(NewParams(1, 10), 0)
	if empty.TotalPages != 0 || empty.HasNext || empty.HasPrev {
		t.Fatalf("unexpected meta for empty result %+v", empty)
	}
}

func TestGetParamsFromQuery(t *testing.T) {
	app := fiber.New()
	var got *Params
	app.Get("/", func(c *fiber.Ctx) error {
		got = GetParams(c)
		return nil
	})

	if _, err := app.Test(httptest.NewRequest("GET", "/?page=4&limit=abc", nil)); err != nil {
		t.Fatalf("request: %v", err)
	}
	if got.Page != 4 || got.Limit != DefaultLimit || got.Offset != 60 {
		t.Fatalf("unexpected params %+v", got)
	}
}
