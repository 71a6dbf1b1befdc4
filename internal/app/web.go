package app

import (
	"fmt"
	"log"
	"net/http"

	"github.com/ebelski/go-copter/internal/config"
	"github.com/ebelski/go-copter/internal/sensors"
)

// RunRegisterDebug brings up the IMU and serves the register console:
// a websocket at /ws driven by the register catalog, a live-sample REST
// endpoint at /api/imu, and static files from ./web.
func RunRegisterDebug() error {
	cfg := config.Get()

	dev, closeBus, err := openIMU(cfg)
	if err != nil {
		return err
	}
	defer closeBus()

	imu := sensors.NewIMU(dev)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", HandleRegisterDebugWS(imu))
	mux.HandleFunc("/api/imu", HandleIMUData(imu))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "web/register_debug.html")
	})

	addr := fmt.Sprintf(":%d", cfg.WebServerPort)
	log.Printf("register debug tool listening on %s", addr)
	return http.ListenAndServe(addr, mux)
}
