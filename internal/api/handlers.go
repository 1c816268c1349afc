package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/oracleapp/oracle/internal/dlc"
	"github.com/oracleapp/oracle/internal/model"
	"github.com/oracleapp/oracle/internal/place"
	"github.com/oracleapp/oracle/internal/platform"
)

// titleIDParam parses the :id path parameter.
func titleIDParam(c *gin.Context) (model.TitleID, bool) {
	id, err := model.ParseTitleID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, false
	}
	return id, true
}

// SearchHandler serves paginated catalog search.
func (s *Server) SearchHandler(c *gin.Context) {
	query := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))

	if err := s.database.Load(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to load game database: %v", err)})
		return
	}

	// Numeric queries also match by exact AppID.
	results := s.database.Search(query, page, perPage)
	if id, err := model.ParseTitleID(query); err == nil {
		if info, ok := s.database.Lookup(id); ok {
			results.Games = append([]model.GameInfo{info}, results.Games...)
			results.Total++
		}
	}

	c.JSON(http.StatusOK, results)
}

// DetailsHandler serves title metadata through the cache.
func (s *Server) DetailsHandler(c *gin.Context) {
	id, ok := titleIDParam(c)
	if !ok {
		return
	}

	if cached, ok := s.cache.Get(id); ok {
		c.JSON(http.StatusOK, cached)
		return
	}

	fetched, err := s.details.Fetch(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	s.cache.Put(id, fetched)
	c.JSON(http.StatusOK, fetched)
}

type batchDetailsRequest struct {
	AppIDs []model.TitleID `json:"app_ids"`
}

// BatchDetailsHandler serves details for several titles, preserving
// request order in the response. Titles whose details cannot be
// fetched are skipped, matching the lenient batch semantics of the
// single-title flow's callers.
func (s *Server) BatchDetailsHandler(c *gin.Context) {
	var req batchDetailsRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	_, missing := s.cache.GetBatch(req.AppIDs)
	for _, id := range missing {
		fetched, err := s.details.Fetch(c.Request.Context(), id)
		if err != nil {
			continue
		}
		s.cache.Put(id, fetched)
	}

	results := make([]*model.AppDetails, 0, len(req.AppIDs))
	for _, id := range req.AppIDs {
		if d, ok := s.cache.Get(id); ok {
			results = append(results, d)
		}
	}
	c.JSON(http.StatusOK, results)
}

// ClearCacheHandler empties the details cache.
func (s *Server) ClearCacheHandler(c *gin.Context) {
	s.cache.Clear()
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// ListLibraryHandler serves the authoritative library view.
func (s *Server) ListLibraryHandler(c *gin.Context) {
	entries, err := s.indexer.Rescan()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// CheckDirectoriesHandler reports which managed directories exist.
func (s *Server) CheckDirectoriesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.placer.CheckDirectories())
}

type downloadRequest struct {
	Name string `json:"name"`
}

// DownloadHandler runs downloadAndInstall for a title. The success
// flag is false when no working source was found; transport-level and
// configuration faults are HTTP errors.
func (s *Server) DownloadHandler(c *gin.Context) {
	id, ok := titleIDParam(c)
	if !ok {
		return
	}

	var req downloadRequest
	_ = c.BindJSON(&req) // name is optional

	task, err := s.downloads.DownloadAndInstall(c.Request.Context(), id, req.Name)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, place.ErrDestinationMissing) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": task.Status == model.TaskStatusCompleted,
		"task_id": task.ID,
		"status":  task.Status,
		"error":   task.LastError,
	})
}

// UpdateHandler refreshes a title's manifest ids from the sources.
func (s *Server) UpdateHandler(c *gin.Context) {
	id, ok := titleIDParam(c)
	if !ok {
		return
	}

	var req downloadRequest
	_ = c.BindJSON(&req)

	message, err := s.downloads.UpdateTitle(c.Request.Context(), id, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// RemoveHandler deletes a title's files and library entry.
func (s *Server) RemoveHandler(c *gin.Context) {
	id, ok := titleIDParam(c)
	if !ok {
		return
	}

	if err := s.indexer.Remove(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// GetDlcsHandler serves the title's current DLC membership.
func (s *Server) GetDlcsHandler(c *gin.Context) {
	id, ok := titleIDParam(c)
	if !ok {
		return
	}

	dlcs, err := s.syncer.CurrentDLCs(id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dlc.ErrDescriptorUnreadable) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	if dlcs == nil {
		dlcs = []model.TitleID{}
	}
	c.JSON(http.StatusOK, gin.H{"dlc_ids": dlcs})
}

type setDlcsRequest struct {
	DlcIDs []model.TitleID `json:"dlc_ids"`
}

// SetDlcsHandler replaces the title's DLC membership with the target
// set.
func (s *Server) SetDlcsHandler(c *gin.Context) {
	id, ok := titleIDParam(c)
	if !ok {
		return
	}

	var req setDlcsRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	result, err := s.syncer.Sync(id, req.DlcIDs)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dlc.ErrDescriptorUnreadable) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Successfully synced %d DLC(s).", len(req.DlcIDs)),
		"diff":    result,
	})
}

// GetSettingsHandler serves the persisted settings object.
func (s *Server) GetSettingsHandler(c *gin.Context) {
	settings, err := s.settings.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// SaveSettingsHandler persists a settings object.
func (s *Server) SaveSettingsHandler(c *gin.Context) {
	var settings struct {
		DownloadDirectory string `json:"download_directory"`
		SteamConfigRoot   string `json:"steam_config_root"`
	}
	if err := c.BindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	current, err := s.settings.Load()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if settings.DownloadDirectory != "" {
		current.DownloadDirectory = settings.DownloadDirectory
	}
	if settings.SteamConfigRoot != "" {
		current.SteamConfigRoot = settings.SteamConfigRoot
	}

	if err := s.settings.Save(current); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, current)
}

// RestartSteamHandler fires the Steam client restart action.
func (s *Server) RestartSteamHandler(c *gin.Context) {
	if err := platform.RestartSteamClient(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restarted": true})
}
