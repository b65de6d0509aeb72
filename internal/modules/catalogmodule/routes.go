package catalogmodule

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ottworks/streamserve/internal/modules/authmodule"
)

// RegisterRoutes sets up the catalog API
func (m *Module) RegisterRoutes(router *gin.Engine) {
	movies := router.Group("/api/v1/movies")
	movies.Use(authmodule.RequireAuth())
	{
		movies.GET("", m.listMovies)
		movies.GET("/statistics", m.getStatistics)
		movies.GET("/genres", m.listGenres)
		movies.GET("/:id", m.getMovie)
		movies.POST("/:id/rate", m.rateMovie)
		movies.POST("/:id/watchlist", m.addToWatchlist)
		movies.DELETE("/:id/watchlist", m.removeFromWatchlist)
	}

	router.GET("/api/v1/users/me/watchlist", authmodule.RequireAuth(), m.getWatchlist)
}

// listMovies returns movies filtered by the query parameters
func (m *Module) listMovies(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))

	filter := MovieFilter{
		Search:   c.Query("search"),
		Language: c.Query("language"),
		Genre:    c.Query("genre"),
		Featured: c.Query("featured") == "true",
		Trending: c.Query("trending") == "true",
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	movies, total, err := GetManager().ListMovies(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Failed to list movies: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"movies": movies,
		"total":  total,
		"count":  len(movies),
		"page":   page,
	})
}

// getMovie returns a single movie
func (m *Module) getMovie(c *gin.Context) {
	id, ok := movieID(c)
	if !ok {
		return
	}

	movie, err := GetManager().GetMovie(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Failed to get movie: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"movie": movie})
}

// listGenres returns all genres for filter dropdowns
func (m *Module) listGenres(c *gin.Context) {
	genres, err := GetManager().ListGenres()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Failed to list genres: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"genres": genres, "count": len(genres)})
}

// getStatistics returns catalog-wide statistics
func (m *Module) getStatistics(c *gin.Context) {
	stats, err := GetManager().Statistics()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": fmt.Sprintf("Failed to compute statistics: %v", err),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// rateMovie records the caller's rating for a movie
func (m *Module) rateMovie(c *gin.Context) {
	user, _ := authmodule.CurrentUser(c)
	id, ok := movieID(c)
	if !ok {
		return
	}

	var req struct {
		Rating float64 `json:"rating" binding:"required"`
		Review string  `json:"review"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("Invalid request: %v", err),
		})
		return
	}

	rating, err := GetManager().RateMovie(user.ID, id, req.Rating, req.Review)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rating": rating})
}

// addToWatchlist adds a movie to the caller's watchlist
func (m *Module) addToWatchlist(c *gin.Context) {
	user, _ := authmodule.CurrentUser(c)
	id, ok := movieID(c)
	if !ok {
		return
	}

	created, err := GetManager().AddToWatchlist(user.ID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if created {
		c.JSON(http.StatusCreated, gin.H{"message": "Added to watchlist"})
	} else {
		c.JSON(http.StatusOK, gin.H{"message": "Already in watchlist"})
	}
}

// removeFromWatchlist removes a movie from the caller's watchlist
func (m *Module) removeFromWatchlist(c *gin.Context) {
	user, _ := authmodule.CurrentUser(c)
	id, ok := movieID(c)
	if !ok {
		return
	}

	if err := GetManager().RemoveFromWatchlist(user.ID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not in watchlist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Removed from watchlist"})
}

// getWatchlist returns the caller's watchlist
func (m *Module) getWatchlist(c *gin.Context) {
	user, _ := authmodule.CurrentUser(c)

	entries, err := GetManager().GetWatchlist(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"watchlist": entries, "count": len(entries)})
}

func movieID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movie ID"})
		return 0, false
	}
	return uint(id), true
}
