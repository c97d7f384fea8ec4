package remote

import (
	"context"
	"net/http"
	"net/url"

	"github.com/khrees2412/hirepipe/pkg/models"
)

// Auth

func (c *Client) Login(ctx context.Context, creds models.Credentials) (models.Envelope[models.LoginResponse], error) {
	return do[models.LoginResponse](ctx, c, http.MethodPost, "/auth/login", creds)
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := do[struct{}](ctx, c, http.MethodPost, "/auth/logout", nil)
	return err
}

func (c *Client) RegisterStudent(ctx context.Context, r models.StudentRegistration) (models.Envelope[models.LoginResponse], error) {
	return do[models.LoginResponse](ctx, c, http.MethodPost, "/auth/register/student", r)
}

func (c *Client) RegisterAdmin(ctx context.Context, r models.AdminRegistration) (models.Envelope[models.LoginResponse], error) {
	return do[models.LoginResponse](ctx, c, http.MethodPost, "/auth/register/admin", r)
}

func (c *Client) RegisterSuperAdmin(ctx context.Context, r models.SuperAdminRegistration) (models.Envelope[models.LoginResponse], error) {
	return do[models.LoginResponse](ctx, c, http.MethodPost, "/auth/register/superadmin", r)
}

// Jobs

func (c *Client) ListJobs(ctx context.Context) (models.Envelope[[]models.Job], error) {
	page, err := do[models.JobsPage](ctx, c, http.MethodGet, "/jobs", nil)
	if err != nil || !page.Success || page.Data == nil {
		return models.Envelope[[]models.Job]{Success: false, Message: page.Message}, err
	}
	return models.OK(page.Data.Jobs), nil
}

func (c *Client) CreateJob(ctx context.Context, draft models.Job) (models.Envelope[models.Job], error) {
	return do[models.Job](ctx, c, http.MethodPost, "/jobs", draft)
}

func (c *Client) JobStats(ctx context.Context) (models.Envelope[models.JobStats], error) {
	return do[models.JobStats](ctx, c, http.MethodGet, "/jobs/stats", nil)
}

// Applications

func (c *Client) ListApplications(ctx context.Context) (models.Envelope[[]models.Application], error) {
	return do[[]models.Application](ctx, c, http.MethodGet, "/applications/my", nil)
}

func (c *Client) CreateApplication(ctx context.Context, draft models.Application) (models.Envelope[models.Application], error) {
	return do[models.Application](ctx, c, http.MethodPost, "/applications", draft)
}

func (c *Client) UpdateApplicationStatus(ctx context.Context, id string, update models.StatusUpdate) (models.Envelope[models.Application], error) {
	return do[models.Application](ctx, c, http.MethodPut, "/applications/"+url.PathEscape(id)+"/status", update)
}

func (c *Client) ApplicationStats(ctx context.Context) (models.Envelope[models.ApplicationStats], error) {
	return do[models.ApplicationStats](ctx, c, http.MethodGet, "/applications/stats", nil)
}

// Pipelines

func (c *Client) ListPipelines(ctx context.Context) (models.Envelope[[]models.ApplicationPipeline], error) {
	return do[[]models.ApplicationPipeline](ctx, c, http.MethodGet, "/pipelines/my", nil)
}

func (c *Client) CreatePipeline(ctx context.Context, draft models.ApplicationPipeline) (models.Envelope[models.ApplicationPipeline], error) {
	return do[models.ApplicationPipeline](ctx, c, http.MethodPost, "/pipelines", draft)
}

func (c *Client) UpdatePipelineStage(ctx context.Context, pipelineID string, stageID models.StageID, patch models.StagePatch) (models.Envelope[models.ApplicationPipeline], error) {
	path := "/pipelines/" + url.PathEscape(pipelineID) + "/stages/" + url.PathEscape(string(stageID))
	return do[models.ApplicationPipeline](ctx, c, http.MethodPatch, path, patch)
}

func (c *Client) AdvancePipeline(ctx context.Context, pipelineID, feedback string) (models.Envelope[models.ApplicationPipeline], error) {
	return do[models.ApplicationPipeline](ctx, c, http.MethodPost, "/pipelines/"+url.PathEscape(pipelineID)+"/advance",
		map[string]string{"feedback": feedback})
}

func (c *Client) RejectPipeline(ctx context.Context, pipelineID, reason string) (models.Envelope[models.ApplicationPipeline], error) {
	return do[models.ApplicationPipeline](ctx, c, http.MethodPost, "/pipelines/"+url.PathEscape(pipelineID)+"/reject",
		map[string]string{"reason": reason})
}

func (c *Client) PipelineStats(ctx context.Context) (models.Envelope[models.PipelineStats], error) {
	return do[models.PipelineStats](ctx, c, http.MethodGet, "/pipelines/stats", nil)
}
