package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"market-twin/src/interfaces"
	"market-twin/src/logger"
	"market-twin/src/models"
	"market-twin/src/reports"

	"github.com/gin-gonic/gin"
)

var _ interfaces.IDataExchanger = (*DashboardServer)(nil)

// -----------------------------------------------------------------------------
// DashboardServer
// -----------------------------------------------------------------------------

type DashboardServer struct {
	Config *models.MConfig
	Logger *logger.Logger
	engine *gin.Engine

	// WebSocket clients
	clients    map[*Client]struct{}
	clientsMu  sync.RWMutex
	broadcast  chan map[string]interface{} // Buffered event queue
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	// Reports plane
	Pipeline   *reports.Pipeline
	Archive    *reports.Archive
	adminToken string
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewDashboardServer(cfg *models.MConfig, log *logger.Logger, pipeline *reports.Pipeline, archive *reports.Archive) *DashboardServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &DashboardServer{
		Config:  cfg,
		Logger:  log,
		engine:  gin.Default(),
		clients: make(map[*Client]struct{}),
		// Buffered so ingest bursts don't block publishers
		broadcast:  make(chan map[string]interface{}, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		Pipeline:   pipeline,
		Archive:    archive,
		adminToken: cfg.Reports.AdminToken,
	}

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Admin-Token")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// setup web routes
	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *DashboardServer) setupRoutes() {
	// Realtime plane
	s.engine.GET("/ws", s.handleWebSocket)
	s.engine.POST("/ingest", s.handleIngest)

	// Dashboard plumbing
	s.engine.GET("/", s.getHome)
	s.engine.GET("/favicon.ico", s.getFavicon)
	s.engine.GET("/gamma", s.getGamma)
	s.engine.GET("/api/health", s.getHealth)

	// Reports
	s.engine.GET("/reports/generate", s.generateReport)

	// Admin reports are a capability resolved at startup: without a
	// configured token the routes stay unregistered.
	if s.adminToken != "" {
		admin := s.engine.Group("/admin/reports", s.requireAdminToken)
		admin.GET("/generate", s.generateReportSecure)
		admin.GET("/recent", s.recentReports)
		admin.GET("/file/:name", s.getReportFile)
	} else {
		s.Logger.Warning("No admin token configured; admin report endpoints disabled")
	}
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *DashboardServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	go s.runHub()

	return s.engine.Run(addr)
}

// -----------------------------------------------------------------------------

// Stop signals the Hub to shut down and drain its clients. Client removal
// stays on the Hub goroutine so an in-flight fan-out can never race a close
// of a client send channel. Safe to call more than once.
func (s *DashboardServer) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	return nil
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *DashboardServer) getHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"connections":      s.ClientCount(),
		"archived_reports": s.Archive.Count(),
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getHome(c *gin.Context) {
	for _, name := range []string{"web/scenario.html", "web/index.html"} {
		if data, err := os.ReadFile(name); err == nil {
			c.Data(http.StatusOK, "text/html; charset=utf-8", data)
			return
		}
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8",
		[]byte("<h1>Market Simulator Dashboard</h1><p>Drop a built dashboard bundle under web/.</p>"))
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getFavicon(c *gin.Context) {
	c.Data(http.StatusOK, "image/x-icon", []byte{})
}

// -----------------------------------------------------------------------------

// gammaSeedPath locates the options gamma seed under the user cache.
func gammaSeedPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".market_twin_cache", "options", "gamma_seed.csv")
}
