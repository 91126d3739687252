package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HeaderArchiveLocation carries the object URI of an archived export.
const HeaderArchiveLocation = "X-Archive-Location"

var devPorts = []string{"80", "3000", "5173", "8501"}

func devOrigins() []string {
	out := make([]string, 0, 2*len(devPorts))
	for _, host := range []string{"localhost", "127.0.0.1"} {
		for _, port := range devPorts {
			out = append(out, "http://"+host+":"+port)
		}
	}
	return out
}

// CORS allows the given origins, or the local dev origins when none are set.
// A "*" entry opens every origin and turns credentials off.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders:  []string{"Content-Type", "X-Requested-With", HeaderRequestID, HeaderTraceID},
		ExposeHeaders: []string{"Content-Disposition", HeaderRequestID, HeaderTraceID, HeaderArchiveLocation},
		MaxAge:        12 * time.Hour,
	}
	switch {
	case slices.Contains(origins, "*"):
		cfg.AllowAllOrigins = true
	case len(origins) == 0:
		cfg.AllowOrigins = devOrigins()
		cfg.AllowCredentials = true
	default:
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
