package scenario

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler serves the scenario catalog with presentation data attached.
type Handler struct {
	catalog *StaticCatalog
}

// NewHandler creates a new scenario handler.
func NewHandler(catalog *StaticCatalog) *Handler {
	return &Handler{catalog: catalog}
}

// RegisterRoutes sets up scenario routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/scenarios", h.List)
	r.GET("/scenarios/:id", h.Get)
}

type scenarioView struct {
	*Scenario
	RarityColor      string `json:"rarityColor"`
	RarityName       string `json:"rarityLabel"`
	MonsterTypeLabel string `json:"monsterTypeLabel"`
}

func view(s *Scenario) scenarioView {
	return scenarioView{
		Scenario:         s,
		RarityColor:      RarityColor(s.Rarity),
		RarityName:       RarityLabel(s.Rarity),
		MonsterTypeLabel: TypeLabel(s.MonsterType),
	}
}

// List handles GET /v1/scenarios?phase=N
func (h *Handler) List(c *gin.Context) {
	var scenarios []*Scenario
	if q := c.Query("phase"); q != "" {
		phase, err := strconv.Atoi(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_phase",
				"message": "phase must be an integer",
			})
			return
		}
		scenarios = h.catalog.ByPhase(phase)
	} else {
		for _, phase := range h.catalog.Phases() {
			scenarios = append(scenarios, h.catalog.ByPhase(phase)...)
		}
	}

	views := make([]scenarioView, 0, len(scenarios))
	for _, s := range scenarios {
		views = append(views, view(s))
	}
	c.JSON(http.StatusOK, gin.H{
		"scenarios": views,
		"count":     len(views),
	})
}

// Get handles GET /v1/scenarios/:id
func (h *Handler) Get(c *gin.Context) {
	s, err := h.catalog.Scenario(c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "scenario_not_found",
			"message": "no such scenario",
		})
		return
	}
	c.JSON(http.StatusOK, view(s))
}
