package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/khrees2412/hirepipe/pkg/models"
	_ "github.com/mattn/go-sqlite3"
)

// createTestDB creates a temporary test database
func createTestDB(t *testing.T) *sql.DB {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func newTestRepo(t *testing.T) *Repository {
	repo := NewRepository(createTestDB(t), DriverSQLite)
	tick := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}
	return repo
}

func TestRebind(t *testing.T) {
	q := `SELECT data FROM jobs WHERE id=? AND owner_id=?`
	if got := rebind(DriverSQLite, q); got != q {
		t.Errorf("sqlite query changed: %s", got)
	}
	want := `SELECT data FROM jobs WHERE id=$1 AND owner_id=$2`
	if got := rebind(DriverPostgres, q); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestRunMigrationsTwice(t *testing.T) {
	db := createTestDB(t)
	if err := RunMigrations(db); err != nil {
		t.Fatalf("second migration run failed: %v", err)
	}
}

func TestOpenUnsupportedDriver(t *testing.T) {
	if _, err := Open("mysql", "whatever"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestOpenLocal(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	db, err := OpenLocal(dir)
	if err != nil {
		t.Fatalf("OpenLocal failed: %v", err)
	}
	defer db.Close()

	repo := NewRepository(db, DriverSQLite)
	if err := repo.SetState(context.Background(), "k", "v"); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}
}

func TestClientState(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, ok, err := repo.GetState(ctx, "authToken"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}

	if err := repo.SetState(ctx, "authToken", "first"); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}
	if err := repo.SetState(ctx, "authToken", "second"); err != nil {
		t.Fatalf("SetState overwrite failed: %v", err)
	}

	value, ok, err := repo.GetState(ctx, "authToken")
	if err != nil || !ok {
		t.Fatalf("GetState failed: ok=%v err=%v", ok, err)
	}
	if value != "second" {
		t.Errorf("expected overwritten value, got %q", value)
	}

	if err := repo.DeleteState(ctx, "authToken"); err != nil {
		t.Fatalf("DeleteState failed: %v", err)
	}
	if _, ok, _ := repo.GetState(ctx, "authToken"); ok {
		t.Error("key still present after delete")
	}
	if err := repo.DeleteState(ctx, "authToken"); err != nil {
		t.Errorf("deleting a missing key should succeed, got %v", err)
	}
}

func TestUsers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user := models.User{
		ID:        "u1",
		Email:     "student@example.com",
		Name:      "John Doe",
		Role:      models.RoleStudent,
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Profile:   &models.Profile{Skills: []string{"Go"}},
	}
	if err := repo.CreateUser(ctx, user, "hash"); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	err := repo.CreateUser(ctx, user, "other")
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, hash, err := repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if hash != "hash" {
		t.Errorf("expected stored hash, got %q", hash)
	}
	if got.Name != "John Doe" || got.Profile == nil || got.Profile.Skills[0] != "Go" {
		t.Errorf("unexpected user: %+v", got)
	}

	login := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	got.LastLogin = &login
	if err := repo.UpdateUser(ctx, got); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	got, _, _ = repo.GetUserByEmail(ctx, user.Email)
	if got.LastLogin == nil || !got.LastLogin.Equal(login) {
		t.Errorf("last login not stored: %v", got.LastLogin)
	}

	if _, _, err := repo.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.UpdateUser(ctx, models.User{ID: "missing"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing user, got %v", err)
	}
}

func TestJobs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	jobs := []models.Job{
		{ID: "j1", Title: "Frontend Developer", Company: "Tech Corp", Status: models.JobActive, Salary: &models.Salary{Text: "$80k"}},
		{ID: "j2", Title: "Backend Developer", Company: "StartupXYZ", Status: models.JobDraft},
	}
	for _, job := range jobs {
		if err := repo.SaveJob(ctx, job); err != nil {
			t.Fatalf("SaveJob failed: %v", err)
		}
	}

	jobs[0].ApplicationCount = 3
	if err := repo.SaveJob(ctx, jobs[0]); err != nil {
		t.Fatalf("SaveJob update failed: %v", err)
	}

	list, err := repo.ListJobs(ctx)
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(list))
	}
	if list[0].ID != "j1" || list[0].ApplicationCount != 3 {
		t.Errorf("update should keep creation order: %+v", list[0])
	}
	if list[0].Salary == nil || list[0].Salary.String() != "$80k" {
		t.Errorf("salary text lost: %+v", list[0].Salary)
	}

	if _, err := repo.GetJob(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := repo.SaveJob(ctx, models.Job{Title: "no id"}); err == nil {
		t.Error("expected error saving a job without id")
	}
}

func TestApplicationsByOwner(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, app := range []models.Application{
		{ID: "a1", JobID: "j1", StudentID: "s1", Status: models.StatusApplied},
		{ID: "a2", JobID: "j2", StudentID: "s2", Status: models.StatusScreening},
		{ID: "a3", JobID: "j2", StudentID: "s1", Status: models.StatusOffer},
	} {
		if err := repo.SaveApplication(ctx, app); err != nil {
			t.Fatalf("SaveApplication failed: %v", err)
		}
	}

	mine, err := repo.ListApplications(ctx, "s1")
	if err != nil {
		t.Fatalf("ListApplications failed: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != "a1" || mine[1].ID != "a3" {
		t.Errorf("unexpected applications for s1: %+v", mine)
	}

	all, _ := repo.ListApplications(ctx, "")
	if len(all) != 3 {
		t.Errorf("expected 3 applications, got %d", len(all))
	}

	none, err := repo.ListApplications(ctx, "s9")
	if err != nil || none == nil || len(none) != 0 {
		t.Errorf("expected empty non-nil list, got %v (err %v)", none, err)
	}

	got, err := repo.GetApplication(ctx, "a2")
	if err != nil || got.Status != models.StatusScreening {
		t.Errorf("GetApplication: %+v, %v", got, err)
	}
}

func TestPipelinesRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	done := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	p := models.ApplicationPipeline{
		ID:           "p1",
		StudentID:    "s1",
		JobTitle:     "Frontend Developer",
		Company:      "TechCorp Inc.",
		CurrentStage: 2,
		Stages: []models.PipelineStage{
			{ID: models.StageApply, Name: "Apply", Status: models.StageCompleted, CompletedDate: &done},
			{ID: models.StageAptitudeBasicCoding, Name: "Aptitude + Basic coding", Status: models.StageCurrent},
		},
		OverallStatus: models.PipelineActive,
	}
	if err := repo.SavePipeline(ctx, p); err != nil {
		t.Fatalf("SavePipeline failed: %v", err)
	}

	got, err := repo.GetPipeline(ctx, "p1")
	if err != nil {
		t.Fatalf("GetPipeline failed: %v", err)
	}
	if len(got.Stages) != 2 || got.Stages[0].CompletedDate == nil || !got.Stages[0].CompletedDate.Equal(done) {
		t.Errorf("stages not stored: %+v", got.Stages)
	}
	if got.CurrentStage != 2 || got.OverallStatus != models.PipelineActive {
		t.Errorf("aggregate fields not stored: %+v", got)
	}

	list, _ := repo.ListPipelines(ctx, "s1")
	if len(list) != 1 {
		t.Errorf("expected 1 pipeline, got %d", len(list))
	}
}
