package health

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"
)

// RegisterRoutes — базовый liveness.
func RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", liveness).Methods(http.MethodGet)
}

// RegisterRoutesWithStore — liveness + readiness: сервис готов, когда
// каталог инвентаря существует и доступен.
func RegisterRoutesWithStore(r *mux.Router, dir string) {
	RegisterRoutes(r)
	r.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if dir == "" {
			http.Error(w, "inventory not configured", http.StatusServiceUnavailable)
			return
		}
		fi, err := os.Stat(dir)
		if err != nil || !fi.IsDir() {
			http.Error(w, "inventory dir unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)
}

func liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}
