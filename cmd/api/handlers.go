package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/admin"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/database"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/logging"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/middleware"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/naming"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/playlist"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/render"
	"github.com/therealutkarshpriyadarshi/webvtt/internal/tracks"
	"github.com/therealutkarshpriyadarshi/webvtt/pkg/models"
)

// API serves track lookups over HTTP
type API struct {
	store     database.Store
	resolver  *tracks.Resolver
	renderer  *render.VideoRenderer
	playlists *playlist.Builder
	admin     *admin.Service
	logger    *logging.Logger
}

// NewAPI creates the API handlers
func NewAPI(store database.Store, urls tracks.URLResolver, links admin.Links, logger *logging.Logger, opts ...tracks.Option) *API {
	resolver := tracks.NewResolver(store, urls, opts...)

	return &API{
		store:     store,
		resolver:  resolver,
		renderer:  render.NewVideoRenderer(resolver),
		playlists: playlist.NewBuilder(store, urls, resolver, logger),
		admin:     admin.NewService(resolver, links),
		logger:    logger,
	}
}

func setupRouter(api *API, limiter middleware.Limiter, logger *logging.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger))

	// Health check
	router.GET("/health", api.healthCheck)

	v1 := router.Group("/api/v1")
	if limiter != nil {
		v1.Use(middleware.RateLimit(limiter, logger))
	}
	{
		// Tracks
		v1.GET("/tracks", api.getTracks)
		v1.GET("/match/:name", api.matchName)
		v1.POST("/render/video", api.renderVideo)
		v1.POST("/playlists", api.buildPlaylist)

		// Attachments
		v1.POST("/attachments", api.createAttachment)
		v1.GET("/attachments/:name/video", api.getVideoForTrack)

		// Admin
		v1.GET("/admin/attachments/:name/fields", api.getAttachmentFields)
		v1.GET("/admin/videos/:name/tracks", api.getTrackGroups)
		v1.GET("/admin/mime-types", api.getMimeTypes)
	}

	return router
}

// storeFailure reports a store error to the client and the log
func (api *API) storeFailure(c *gin.Context, msg string, err error) {
	api.logger.WithRequestID(c.GetString(middleware.RequestIDKey)).ErrorWithErr(msg, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}

// Health check endpoint
func (api *API) healthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := api.store.Health(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
	})
}

// Track manifest or <track> fragment for a video URL
func (api *API) getTracks(c *gin.Context) {
	video := c.Query("video")
	if video == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video query parameter is required"})
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "html":
		fragment, ok, err := api.resolver.BuildHTMLFragment(c.Request.Context(), video)
		if err != nil {
			api.storeFailure(c, "Failed to find tracks", err)
			return
		}
		if !ok {
			c.Status(http.StatusNoContent)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fragment))

	case "json":
		sources, ok, err := api.resolver.BuildJSONManifest(c.Request.Context(), video)
		if err != nil {
			api.storeFailure(c, "Failed to find tracks", err)
			return
		}
		if !ok {
			sources = []models.TrackSource{}
		}
		c.JSON(http.StatusOK, gin.H{
			"base_name": naming.DeriveBaseName(video),
			"found":     ok,
			"tracks":    sources,
		})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json or html"})
	}
}

// Parse a name against the track naming convention
func (api *API) matchName(c *gin.Context) {
	tn, ok := naming.MatchTrackName(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not a track name"})
		return
	}

	c.JSON(http.StatusOK, tn)
}

type renderVideoRequest struct {
	Markup string            `json:"markup" binding:"required"`
	Video  string            `json:"video"`
	Attrs  map[string]string `json:"attrs"`
}

// Splice tracks into rendered video markup
func (api *API) renderVideo(c *gin.Context) {
	var req renderVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	markup, err := api.renderer.Render(c.Request.Context(), req.Markup, req.Video, req.Attrs)
	if err != nil {
		api.storeFailure(c, "Failed to find tracks", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"markup": markup})
}

// Playlist document, or player markup with ?format=html
func (api *API) buildPlaylist(c *gin.Context) {
	opts := playlist.DefaultOptions()
	if err := c.ShouldBindJSON(&opts); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if c.Query("format") == "html" {
		out, ok, err := api.playlists.RenderHTML(c.Request.Context(), opts)
		if err != nil {
			api.storeFailure(c, "Failed to build playlist", err)
			return
		}
		if !ok {
			c.Status(http.StatusNoContent)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out))
		return
	}

	doc, ok, err := api.playlists.Build(c.Request.Context(), opts)
	if err != nil {
		api.storeFailure(c, "Failed to build playlist", err)
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// Register an attachment
func (api *API) createAttachment(c *gin.Context) {
	var a models.Attachment
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if a.Name == "" || a.MimeType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and mime_type are required"})
		return
	}

	if err := api.store.CreateAttachment(c.Request.Context(), &a); err != nil {
		api.storeFailure(c, "Failed to create attachment", err)
		return
	}

	c.JSON(http.StatusCreated, a)
}

// Video a track belongs to
func (api *API) getVideoForTrack(c *gin.Context) {
	video, ok, err := api.resolver.FindVideoForTrack(c.Request.Context(), c.Param("name"))
	if err != nil {
		api.storeFailure(c, "Failed to find video", err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Video not found"})
		return
	}

	c.JSON(http.StatusOK, video)
}

// Edit-screen fields of an attachment
func (api *API) getAttachmentFields(c *gin.Context) {
	a, err := api.store.GetAttachmentByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		api.storeFailure(c, "Failed to get attachment", err)
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Attachment not found"})
		return
	}

	fields, err := api.admin.AttachmentFields(c.Request.Context(), a)
	if err != nil {
		api.storeFailure(c, "Failed to build attachment fields", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attachment": a,
		"fields":     fields,
	})
}

// Tracks of a video grouped by kind and locale
func (api *API) getTrackGroups(c *gin.Context) {
	base := c.Param("name")

	groups, err := api.resolver.GroupForAdmin(c.Request.Context(), base)
	if err != nil {
		api.storeFailure(c, "Failed to find tracks", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"base_name": base,
		"groups":    groups.Sorted(),
	})
}

func (api *API) getMimeTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"mime_types": admin.TrackMimeTypes()})
}
