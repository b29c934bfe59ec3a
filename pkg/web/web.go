package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Status is what the local API and dashboards see each tick.
type Status struct {
	Display  string   `json:"display"`
	Decision string   `json:"decision"`
	Charging bool     `json:"charging"`
	Battery  *float64 `json:"battery,omitempty"`
	Override bool     `json:"override"`
}

// Server exposes controller status on localhost and lets the user arm a
// manual override from the home network.
type Server struct {
	addr       string
	status     func() Status
	onOverride func()
}

func New(addr string, status func() Status, onOverride func()) *Server {
	return &Server{
		addr:       addr,
		status:     status,
		onOverride: onOverride,
	}
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/api/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.status())
	})
	router.POST("/api/override", func(c *gin.Context) {
		s.onOverride()
		c.JSON(http.StatusOK, gin.H{"override": true})
	})
	return router
}

func (s *Server) Start(ctx context.Context, wg *sync.WaitGroup) {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.router(),
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		if err != nil {
			logrus.Error(err)
		}
	}()

	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logrus.Error(err)
		}
	}()
}
