package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	stats StatsProvider
	now   func() time.Time
}

func NewStatsController(stats StatsProvider) *StatsController {
	return &StatsController{stats: stats, now: time.Now}
}

func (controller *StatsController) GetStats(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := controller.stats.Stats(owner)
	if err != nil {
		respondDomainError(c, err, "compute stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetFinished lists books finished in ?year=, defaulting to the current year.
func (controller *StatsController) GetFinished(c *gin.Context) {
	owner, ok := currentUser(c)
	if !ok {
		return
	}

	year, ok := parseOptionalIntQuery(c, "year")
	if !ok {
		return
	}
	if year == nil {
		current := controller.now().Year()
		year = &current
	}

	result, err := controller.stats.FinishedInYear(owner, *year)
	if err != nil {
		respondDomainError(c, err, "finished books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": *year, "books": result, "count": len(result)})
}
