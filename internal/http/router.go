package http

import (
	"net/http"

	"amc-backend/internal/handlers"
	"amc-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	customerPath = "/customers/{id:[0-9]+}"
	branchPath   = customerPath + "/branches/{branchId:[0-9]+}"
	quarterPath  = branchPath + "/quarters/{quarter:-?[0-9]+}"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	customerHandler *handlers.CustomerHandler,
	branchHandler *handlers.BranchHandler,
	quarterHandler *handlers.QuarterHandler,
	navigationHandler *handlers.NavigationHandler,
	noticeHandler *handlers.NoticeHandler,
	reportHandler *handlers.ReportHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - AMC customers, branches and quarters
	amcAPI := r.PathPrefix("/api/amc").Subrouter()
	amcAPI.Use(authMiddleware.Authenticate)
	amcAPI.HandleFunc("/customers", customerHandler.ListCustomers).Methods("GET")
	amcAPI.HandleFunc("/customers", customerHandler.CreateCustomer).Methods("POST")
	amcAPI.HandleFunc(customerPath, customerHandler.GetCustomer).Methods("GET")
	amcAPI.HandleFunc(customerPath, customerHandler.UpdateCustomer).Methods("PUT")
	amcAPI.HandleFunc(customerPath, customerHandler.DeleteCustomer).Methods("DELETE")

	amcAPI.HandleFunc(customerPath+"/branches", branchHandler.ListBranches).Methods("GET")
	amcAPI.HandleFunc(customerPath+"/branches", branchHandler.CreateBranch).Methods("POST")
	amcAPI.HandleFunc(branchPath, branchHandler.GetBranch).Methods("GET")
	amcAPI.HandleFunc(branchPath, branchHandler.UpdateBranch).Methods("PUT")
	amcAPI.HandleFunc(branchPath, branchHandler.DeleteBranch).Methods("DELETE")

	amcAPI.HandleFunc(quarterPath+"/complete", quarterHandler.CompleteQuarter).Methods("POST")
	amcAPI.HandleFunc(quarterPath+"/sheet", quarterHandler.UploadQuarterlySheet).Methods("POST")
	amcAPI.HandleFunc(branchPath+"/breakdowns", quarterHandler.ListBreakdowns).Methods("GET")
	amcAPI.HandleFunc(branchPath+"/breakdowns", quarterHandler.RecordBreakdown).Methods("POST")

	// Protected API routes - Navigation
	navAPI := r.PathPrefix("/api/navigation").Subrouter()
	navAPI.Use(authMiddleware.Authenticate)
	navAPI.HandleFunc("", navigationHandler.Current).Methods("GET")
	navAPI.HandleFunc(customerPath, navigationHandler.SelectCustomer).Methods("POST")
	navAPI.HandleFunc(branchPath, navigationHandler.SelectBranch).Methods("POST")
	navAPI.HandleFunc(quarterPath, navigationHandler.SelectQuarter).Methods("POST")
	navAPI.HandleFunc("/back", navigationHandler.Back).Methods("POST")
	navAPI.HandleFunc("/refresh", navigationHandler.Refresh).Methods("POST")

	// Protected API routes - Notices
	noticesAPI := r.PathPrefix("/api/notices").Subrouter()
	noticesAPI.Use(authMiddleware.Authenticate)
	noticesAPI.HandleFunc("", noticeHandler.ListNotices).Methods("GET")
	noticesAPI.HandleFunc("/ws", noticeHandler.Stream).Methods("GET")

	// Protected API routes - Reports
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.HandleFunc("/amc.pdf", reportHandler.DownloadPDF).Methods("GET")
	reportsAPI.HandleFunc("/amc.xlsx", reportHandler.DownloadXLSX).Methods("GET")

	// Health endpoints
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")

	// Prometheus metrics
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// NewMetricsRouter serves only metrics and health, for the separate metrics port.
func NewMetricsRouter(healthHandler *handlers.HealthHandler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Wrap applies the outer middleware chain: panic recovery outside CORS.
func Wrap(r http.Handler, cors func(http.Handler) http.Handler) http.Handler {
	return middleware.PanicRecovery(cors(r))
}
