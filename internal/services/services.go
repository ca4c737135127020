package services

import (
	"github.com/outreachhq/outreach/internal/config"
	"github.com/outreachhq/outreach/internal/db"
	"github.com/outreachhq/outreach/internal/services/analytics"
	"github.com/outreachhq/outreach/internal/services/auth"
	"github.com/outreachhq/outreach/internal/services/campaign"
	"github.com/outreachhq/outreach/internal/services/contact"
	"github.com/outreachhq/outreach/internal/services/template"
	"github.com/outreachhq/outreach/internal/services/user"
	"github.com/outreachhq/outreach/internal/services/workspace"
)

type Services struct {
	Auth      *auth.AuthService
	User      *user.UserService
	Workspace *workspace.WorkspaceService
	Contact   *contact.ContactService
	Template  *template.TemplateService
	Campaign  *campaign.CampaignService
	Analytics *analytics.AnalyticsService

	Admins *auth.AdminRepo
}

func NewServices(conf *config.Config) *Services {
	dbconn := db.NewConn(conf)

	userRepo := user.NewUserRepo(dbconn)
	userSvc := user.NewUserService(userRepo)

	adminRepo := auth.NewAdminRepo(dbconn)
	tokenRepo := auth.NewTokenRepo(dbconn)
	issuer := auth.NewIssuer(conf.JWT_SECRET, conf.JWT_EXPIRES_IN)

	contactRepo := contact.NewContactRepo(dbconn)
	templateRepo := template.NewTemplateRepo(dbconn)
	campaignRepo := campaign.NewCampaignRepo(dbconn)

	return &Services{
		Auth:      auth.NewAuthService(adminRepo, userRepo, tokenRepo, issuer),
		User:      userSvc,
		Workspace: workspace.NewWorkspaceService(workspace.NewWorkspaceRepo(dbconn), userSvc),
		Contact:   contact.NewContactService(contactRepo),
		Template:  template.NewTemplateService(templateRepo),
		Campaign:  campaign.NewCampaignService(campaignRepo, templateRepo, contactRepo),
		Analytics: analytics.NewAnalyticsService(analytics.NewAnalyticsRepo(dbconn)),

		Admins: adminRepo,
	}
}
