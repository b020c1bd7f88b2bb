//go:build integration || !unit

package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	server "amenity_engine/internal/adapters/http_server"
	"amenity_engine/internal/app"
	"amenity_engine/internal/domain"
	mysqlrepo "amenity_engine/internal/storage/mysql"
)

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/sql)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// ---------- the test ----------
func TestHTTP_EndToEnd_ResolveStay(t *testing.T) {
	// Start isolated MySQL container
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=amenities",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "amenities")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()
	hotelID := int64(9001)

	// Seed: breakfast included by rate plan, spa forced by room product,
	// parking EXTRA but included on the second night via daily override.
	if err := repo.UpsertAmenities(ctx, []domain.Amenity{
		{ID: 1, Code: "BRK", HotelID: hotelID},
		{ID: 2, Code: "SPA", HotelID: hotelID},
		{ID: 3, Code: "PRK", HotelID: hotelID},
	}); err != nil {
		t.Fatalf("UpsertAmenities: %v", err)
	}
	if err := repo.ReplaceRatePlanEntitlements(ctx, 7, []domain.RatePlanEntitlement{
		{RatePlanID: 7, AmenityID: 1, Class: domain.ClassIncluded},
		{RatePlanID: 7, AmenityID: 3, Class: domain.ClassExtra},
	}); err != nil {
		t.Fatalf("ReplaceRatePlanEntitlements: %v", err)
	}
	if err := repo.ReplaceDailyOverride(ctx, hotelID, domain.RatePlanDailyOverride{
		RatePlanID: 7, Date: "2026-08-02", IncludedAmenityCodes: []string{"BRK", "PRK"},
	}); err != nil {
		t.Fatalf("ReplaceDailyOverride: %v", err)
	}
	if err := repo.ReplaceRoomProductEntitlements(ctx, hotelID, 3, []domain.RoomProductEntitlement{
		{RoomProductID: 3, AmenityID: 2, Class: domain.ClassMandatory},
	}); err != nil {
		t.Fatalf("ReplaceRoomProductEntitlements: %v", err)
	}

	// Full wiring minus redis: nil cache falls back to direct reads.
	resolver := app.NewResolutionService(repo, repo, repo, nil, time.Minute)
	srv := server.New()
	srv.MountHandlers(&server.Handlers{R: resolver})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	body := `{"reservations":[{"index":0,"ratePlanId":7,"roomProductId":3,"from":"2026-08-01","to":"2026-08-02"}]}`
	res, err := http.Post(
		fmt.Sprintf("%s/v1/hotels/%d/entitlements/resolve", ts.URL, hotelID),
		"application/json",
		bytes.NewBufferString(body),
	)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}

	var out struct {
		Results []struct {
			Index    int `json:"index"`
			Included []struct {
				ID            int64    `json:"id"`
				IncludedDates []string `json:"includedDates"`
			} `json:"included"`
			Extra []struct {
				ID int64 `json:"id"`
			} `json:"extra"`
			Mandatory []struct {
				ID int64 `json:"id"`
			} `json:"mandatory"`
		} `json:"results"`
	}
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Results) != 1 || out.Results[0].Index != 0 {
		t.Fatalf("unexpected results: %+v", out.Results)
	}
	r := out.Results[0]

	// breakfast both nights, parking only the overridden night (and its
	// EXTRA entry gone for the whole span), spa forced by the room product
	if len(r.Included) != 2 || r.Included[0].ID != 1 || r.Included[1].ID != 3 {
		t.Fatalf("included: %+v", r.Included)
	}
	if len(r.Included[0].IncludedDates) != 2 {
		t.Fatalf("breakfast dates: %+v", r.Included[0])
	}
	if len(r.Included[1].IncludedDates) != 1 || r.Included[1].IncludedDates[0] != "2026-08-02" {
		t.Fatalf("parking dates: %+v", r.Included[1])
	}
	if len(r.Extra) != 0 {
		t.Fatalf("extra: %+v", r.Extra)
	}
	if len(r.Mandatory) != 1 || r.Mandatory[0].ID != 2 {
		t.Fatalf("mandatory: %+v", r.Mandatory)
	}
}
