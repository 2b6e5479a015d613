package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/elum-utils/safetymonitor/config"
	"github.com/elum-utils/safetymonitor/models"
	"github.com/elum-utils/safetymonitor/settings"
)

// IntegrationDocument is served by GET /integration-config.
type IntegrationDocument struct {
	Data IntegrationData `json:"data"`
}

type IntegrationData struct {
	Date                IntegrationDate       `json:"date"`
	IntegrationCategory string                `json:"integration_category"`
	IntegrationType     string                `json:"integration_type"`
	Descriptions        IntegrationDescriptor `json:"descriptions"`
	TargetURL           string                `json:"target_url"`
	KeyFeatures         []string              `json:"key_features"`
	Settings            []models.Setting      `json:"settings"`
	Endpoints           []Endpoint            `json:"endpoints"`
	IsActive            bool                  `json:"is_active"`
	Author              string                `json:"author,omitempty"`
	Version             string                `json:"version"`
}

type IntegrationDate struct {
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type IntegrationDescriptor struct {
	AppName         string `json:"app_name"`
	AppDescription  string `json:"app_description"`
	AppLogo         string `json:"app_logo,omitempty"`
	AppURL          string `json:"app_url"`
	BackgroundColor string `json:"background_color"`
}

type Endpoint struct {
	Path        string `json:"path"`
	Method      string `json:"method"`
	Description string `json:"description"`
}

var keyFeatures = []string{
	"Static filtering of profanity, sensitive data and spam",
	"Per-channel banned words and message length limits",
	"AI safety analysis with a configurable minimum safety score",
	"Fails closed when the AI check cannot be completed",
}

// BuildIntegration renders the integration metadata for cfg.
func BuildIntegration(cfg config.IntegrationConfig) IntegrationDocument {
	today := time.Now().UTC().Format(time.DateOnly)
	created, updated := cfg.CreatedAt, cfg.UpdatedAt
	if created == "" {
		created = today
	}
	if updated == "" {
		updated = created
	}
	appURL := strings.TrimRight(cfg.AppURL, "/")

	return IntegrationDocument{Data: IntegrationData{
		Date:                IntegrationDate{CreatedAt: created, UpdatedAt: updated},
		IntegrationCategory: cfg.Category,
		IntegrationType:     "modifier",
		Descriptions: IntegrationDescriptor{
			AppName:         cfg.AppName,
			AppDescription:  cfg.AppDescription,
			AppLogo:         cfg.AppLogo,
			AppURL:          appURL,
			BackgroundColor: cfg.BackgroundColor,
		},
		TargetURL:   appURL + "/webhook",
		KeyFeatures: keyFeatures,
		Settings:    settings.Catalog(),
		Endpoints: []Endpoint{
			{Path: "/webhook", Method: http.MethodPost, Description: "Moderates a message and returns the verdict"},
			{Path: "/health", Method: http.MethodGet, Description: "Health check endpoint"},
		},
		IsActive: true,
		Author:   cfg.Author,
		Version:  cfg.Version,
	}}
}

func (s *Server) integrationConfig(c *gin.Context) {
	c.JSON(http.StatusOK, BuildIntegration(s.opt.Integration))
}
