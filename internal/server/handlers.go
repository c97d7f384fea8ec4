package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/khrees2412/hirepipe/internal/application"
	"github.com/khrees2412/hirepipe/internal/auth"
	"github.com/khrees2412/hirepipe/internal/database"
	"github.com/khrees2412/hirepipe/internal/jobs"
	"github.com/khrees2412/hirepipe/internal/pipeline"
	"github.com/khrees2412/hirepipe/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

// maxPageSize caps the limit query parameter of job listings
const maxPageSize = 100

// Auth

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decode(r, &creds); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, hash, err := s.repo.GetUserByEmail(r.Context(), strings.TrimSpace(creds.Email))
	if errors.Is(err, database.ErrNotFound) {
		writeFail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password)) != nil {
		writeFail(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	now := s.now()
	user.LastLogin = &now
	if err := s.repo.UpdateUser(r.Context(), user); err != nil {
		s.internalError(w, r, err)
		return
	}
	s.respondWithTokens(w, r, http.StatusOK, user)
}

func (s *Server) logout(w http.ResponseWriter, _ *http.Request) {
	writeOK(w, http.StatusOK, struct{}{})
}

func (s *Server) registerStudent(w http.ResponseWriter, r *http.Request) {
	var req models.StudentRegistration
	if err := decode(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ConfirmPassword == "" {
		req.ConfirmPassword = req.Password
	}
	if err := auth.ValidateStudent(req); err != nil {
		writeFail(w, http.StatusBadRequest, err.Error())
		return
	}
	s.register(w, r, models.User{
		Email: req.Email,
		Name:  req.Name,
		Role:  models.RoleStudent,
		Profile: &models.Profile{
			Phone:      req.Phone,
			Skills:     req.Skills,
			Experience: req.Experience,
			Education:  req.Education,
			ResumeURL:  req.ResumeURL,
		},
	}, req.Password)
}

func (s *Server) registerAdmin(w http.ResponseWriter, r *http.Request) {
	var req models.AdminRegistration
	if err := decode(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ConfirmPassword == "" {
		req.ConfirmPassword = req.Password
	}
	if err := auth.ValidateAdmin(req); err != nil {
		writeFail(w, http.StatusBadRequest, err.Error())
		return
	}
	s.register(w, r, models.User{
		Email: req.Email,
		Name:  req.Name,
		Role:  models.RoleAdmin,
		Profile: &models.Profile{
			Phone:      req.Phone,
			Company:    req.Company,
			JobTitle:   req.JobTitle,
			Department: req.Department,
		},
	}, req.Password)
}

func (s *Server) registerSuperAdmin(w http.ResponseWriter, r *http.Request) {
	var req models.SuperAdminRegistration
	if err := decode(r, &req); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.ConfirmPassword == "" {
		req.ConfirmPassword = req.Password
	}
	if err := auth.ValidateSuperAdmin(req); err != nil {
		writeFail(w, http.StatusBadRequest, err.Error())
		return
	}
	s.register(w, r, models.User{
		Email: req.Email,
		Name:  req.Name,
		Role:  models.RoleSuperAdmin,
		Profile: &models.Profile{
			TwoFactorEnabled: req.TwoFactorEnabled,
			InviteCode:       strings.ToUpper(req.InviteCode),
		},
	}, req.Password)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request, user models.User, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	now := s.now()
	user.ID = s.newID()
	user.CreatedAt = now
	user.LastLogin = &now

	err = s.repo.CreateUser(r.Context(), user, string(hash))
	if errors.Is(err, database.ErrDuplicate) {
		writeFail(w, http.StatusConflict, "An account with this email already exists")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.logger.Info("registered user", "role", user.Role, "id", user.ID)
	s.respondWithTokens(w, r, http.StatusCreated, user)
}

func (s *Server) respondWithTokens(w http.ResponseWriter, r *http.Request, status int, user models.User) {
	access, refresh, err := s.tokens.Issue(user)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeOK(w, status, models.LoginResponse{User: user, Token: access, RefreshToken: refresh})
}

// Jobs

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	all, err := s.repo.ListJobs(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := jobs.Filter{
		Search:         q.Get("search"),
		Location:       q.Get("location"),
		EmploymentType: q.Get("employmentType"),
	}
	if skills := q.Get("skills"); skills != "" {
		filter.Skills = strings.Split(skills, ",")
	}
	matched := filter.Apply(all)

	page := positiveInt(q.Get("page"), 1)
	limit := min(positiveInt(q.Get("limit"), 10), maxPageSize)
	totalPages := (len(matched) + limit - 1) / limit
	start := len(matched)
	if page-1 < totalPages {
		start = (page - 1) * limit
	}
	end := len(matched)
	if limit < end-start {
		end = start + limit
	}

	writeOK(w, http.StatusOK, models.JobsPage{
		Jobs:       matched[start:end],
		Total:      len(matched),
		Page:       page,
		TotalPages: totalPages,
	})
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.repo.GetJob(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, database.ErrNotFound) {
		writeFail(w, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, job)
}

func (s *Server) createJob(w http.ResponseWriter, r *http.Request) {
	var draft models.Job
	if err := decode(r, &draft); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Company) == "" {
		writeFail(w, http.StatusBadRequest, "Title and company are required")
		return
	}

	claims, _ := ClaimsFrom(r.Context())
	draft.ID = s.newID()
	draft.AdminID = claims.Subject
	draft.PostedDate = s.now()
	draft.ApplicationCount = 0
	if draft.Status == "" {
		draft.Status = models.JobActive
	}
	if err := s.repo.SaveJob(r.Context(), draft); err != nil {
		s.internalError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, draft)
}

func (s *Server) jobStats(w http.ResponseWriter, r *http.Request) {
	all, err := s.repo.ListJobs(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, jobs.ComputeStats(all))
}

// Applications

// ownerScope limits students to their own records; admins see everything
func ownerScope(claims *Claims) string {
	if claims.Role == models.RoleStudent {
		return claims.Subject
	}
	return ""
}

func (s *Server) myApplications(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	apps, err := s.repo.ListApplications(r.Context(), ownerScope(claims))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, apps)
}

func (s *Server) createApplication(w http.ResponseWriter, r *http.Request) {
	var draft models.Application
	if err := decode(r, &draft); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if draft.JobID == "" {
		writeFail(w, http.StatusBadRequest, "jobId is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.repo.GetJob(r.Context(), draft.JobID)
	if errors.Is(err, database.ErrNotFound) {
		writeFail(w, http.StatusNotFound, "Job not found")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	claims, _ := ClaimsFrom(r.Context())
	draft.ID = s.newID()
	draft.StudentID = claims.Subject
	draft.Status = models.StatusApplied
	draft.AIScore = nil
	draft.AppliedAt = s.now()
	if err := s.repo.SaveApplication(r.Context(), draft); err != nil {
		s.internalError(w, r, err)
		return
	}

	job.ApplicationCount++
	if err := s.repo.SaveJob(r.Context(), job); err != nil {
		s.internalError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, draft)
}

func (s *Server) updateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	var update models.StatusUpdate
	if err := decode(r, &update); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !application.Valid(update.Status) {
		writeFail(w, http.StatusBadRequest, "Invalid application status")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	app, err := s.repo.GetApplication(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, database.ErrNotFound) {
		writeFail(w, http.StatusNotFound, "Application not found")
		return
	}
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	app.Status = update.Status
	if update.Feedback != "" {
		app.Feedback = update.Feedback
	}
	if err := s.repo.SaveApplication(r.Context(), app); err != nil {
		s.internalError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, app)
}

func (s *Server) applicationStats(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	apps, err := s.repo.ListApplications(r.Context(), ownerScope(claims))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, application.Stats(apps))
}

// Pipelines

func (s *Server) myPipelines(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	list, err := s.repo.ListPipelines(r.Context(), ownerScope(claims))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, list)
}

func (s *Server) getPipeline(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadPipeline(w, r)
	if !ok {
		return
	}
	writeOK(w, http.StatusOK, p)
}

func (s *Server) createPipeline(w http.ResponseWriter, r *http.Request) {
	var draft models.ApplicationPipeline
	if err := decode(r, &draft); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(draft.Stages) == 0 {
		draft.Stages = pipeline.CreateDefaultStages()
	} else if !pipeline.IsCanonical(draft.Stages) {
		writeFail(w, http.StatusBadRequest, pipeline.ErrCustomStages.Error())
		return
	}
	for _, st := range draft.Stages {
		if !st.Status.Valid() {
			writeFail(w, http.StatusBadRequest, pipeline.ErrInvalidStatus.Error())
			return
		}
	}

	claims, _ := ClaimsFrom(r.Context())
	if claims.Role == models.RoleStudent || draft.StudentID == "" {
		draft.StudentID = claims.Subject
	}
	now := s.now()
	draft.ID = s.newID()
	if draft.AppliedDate.IsZero() {
		draft.AppliedDate = now
	}
	draft.LastUpdated = now
	draft = pipeline.Derive(draft)

	if err := s.repo.SavePipeline(r.Context(), draft); err != nil {
		s.internalError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, draft)
}

func (s *Server) updateStage(w http.ResponseWriter, r *http.Request) {
	var patch models.StagePatch
	if err := decode(r, &patch); err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	stageID := models.StageID(mux.Vars(r)["stageId"])
	s.mutatePipeline(w, r, func(p models.ApplicationPipeline) (models.ApplicationPipeline, error) {
		return pipeline.PatchStage(p, stageID, patch, s.now())
	})
}

func (s *Server) advancePipeline(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Feedback string `json:"feedback"`
	}
	if r.ContentLength != 0 {
		if err := decode(r, &body); err != nil {
			writeFail(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	s.mutatePipeline(w, r, func(p models.ApplicationPipeline) (models.ApplicationPipeline, error) {
		return pipeline.Advance(p, body.Feedback, s.now())
	})
}

func (s *Server) rejectPipeline(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Reason string `json:"reason"`
	}
	if r.ContentLength != 0 {
		if err := decode(r, &body); err != nil {
			writeFail(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	s.mutatePipeline(w, r, func(p models.ApplicationPipeline) (models.ApplicationPipeline, error) {
		return pipeline.Reject(p, body.Reason, s.now())
	})
}

func (s *Server) pipelineStats(w http.ResponseWriter, r *http.Request) {
	claims, _ := ClaimsFrom(r.Context())
	list, err := s.repo.ListPipelines(r.Context(), ownerScope(claims))
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, pipeline.ComputeStats(list))
}

// mutatePipeline loads, changes and stores one pipeline under the server lock.
// The aggregate fields are always re-derived from the stored stages.
func (s *Server) mutatePipeline(w http.ResponseWriter, r *http.Request, change func(models.ApplicationPipeline) (models.ApplicationPipeline, error)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.loadPipeline(w, r)
	if !ok {
		return
	}
	next, err := change(p)
	switch {
	case errors.Is(err, pipeline.ErrUnknownStage):
		writeFail(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, pipeline.ErrInvalidStatus), errors.Is(err, pipeline.ErrNothingToAdvance):
		writeFail(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.internalError(w, r, err)
		return
	}

	if err := s.repo.SavePipeline(r.Context(), next); err != nil {
		s.internalError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, next)
}

// loadPipeline fetches the pipeline named in the route, hiding other students' records
func (s *Server) loadPipeline(w http.ResponseWriter, r *http.Request) (models.ApplicationPipeline, bool) {
	p, err := s.repo.GetPipeline(r.Context(), mux.Vars(r)["id"])
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		s.internalError(w, r, err)
		return p, false
	}
	claims, _ := ClaimsFrom(r.Context())
	if err != nil || (claims.Role == models.RoleStudent && p.StudentID != claims.Subject) {
		writeFail(w, http.StatusNotFound, "Pipeline not found")
		return p, false
	}
	return p, true
}

func positiveInt(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
