package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/domain"
	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/sampler"
	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/usecase/command"
	"github.com/PapaBear1981/supplyline-mro-suite/internal/cyclecount/usecase/query"
	userdomain "github.com/PapaBear1981/supplyline-mro-suite/internal/user/domain"
	"github.com/PapaBear1981/supplyline-mro-suite/pkg/logger"
)

// CycleCountHandler handles HTTP requests for cycle counting
type CycleCountHandler struct {
	// Command handlers
	createScheduleHandler    *command.CreateScheduleHandler
	updateScheduleHandler    *command.UpdateScheduleHandler
	deleteScheduleHandler    *command.DeleteScheduleHandler
	createBatchHandler       *command.CreateBatchHandler
	updateBatchHandler       *command.UpdateBatchHandler
	deleteBatchHandler       *command.DeleteBatchHandler
	generateItemsHandler     *command.GenerateItemsHandler
	assignItemsHandler       *command.AssignItemsHandler
	submitResultHandler      *command.SubmitResultHandler
	approveAdjustmentHandler *command.ApproveAdjustmentHandler
	markReadHandler          *command.MarkNotificationReadHandler
	markAllReadHandler       *command.MarkAllNotificationsReadHandler

	// Query handlers
	getScheduleHandler       *query.GetScheduleHandler
	listSchedulesHandler     *query.ListSchedulesHandler
	getBatchHandler          *query.GetBatchHandler
	listBatchesHandler       *query.ListBatchesHandler
	listItemsHandler         *query.ListItemsHandler
	listResultsHandler       *query.ListResultsHandler
	listNotificationsHandler *query.ListNotificationsHandler
	accuracyHandler          *query.AccuracyReportHandler
	discrepancyHandler       *query.DiscrepancyReportHandler
	performanceHandler       *query.PerformanceReportHandler
	coverageHandler          *query.CoverageReportHandler

	cache *redis.Client

	requestCounter     *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
	resultsSubmitted   prometheus.Counter
	discrepanciesFound prometheus.Counter
}

// NewCycleCountHandler creates a new cycle count handler
func NewCycleCountHandler(repo domain.Repository, users userdomain.Directory, s *sampler.Sampler, audit domain.AuditLogger, cache *redis.Client) *CycleCountHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyclecount_service_requests_total",
			Help: "Total number of requests to the cycle count service",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cyclecount_service_request_duration_seconds",
			Help:    "Duration of cycle count service requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	resultsSubmitted := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cyclecount_results_submitted_total",
			Help: "Total number of count results submitted",
		},
	)

	discrepanciesFound := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cyclecount_discrepancies_found_total",
			Help: "Total number of count discrepancies detected",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(resultsSubmitted)
	prometheus.MustRegister(discrepanciesFound)

	return &CycleCountHandler{
		createScheduleHandler:    command.NewCreateScheduleHandler(repo, audit),
		updateScheduleHandler:    command.NewUpdateScheduleHandler(repo, audit),
		deleteScheduleHandler:    command.NewDeleteScheduleHandler(repo, audit),
		createBatchHandler:       command.NewCreateBatchHandler(repo, audit),
		updateBatchHandler:       command.NewUpdateBatchHandler(repo, audit),
		deleteBatchHandler:       command.NewDeleteBatchHandler(repo, audit),
		generateItemsHandler:     command.NewGenerateItemsHandler(repo, s, audit),
		assignItemsHandler:       command.NewAssignItemsHandler(repo, users, audit),
		submitResultHandler:      command.NewSubmitResultHandler(repo, users, audit),
		approveAdjustmentHandler: command.NewApproveAdjustmentHandler(repo, audit),
		markReadHandler:          command.NewMarkNotificationReadHandler(repo),
		markAllReadHandler:       command.NewMarkAllNotificationsReadHandler(repo),
		getScheduleHandler:       query.NewGetScheduleHandler(repo),
		listSchedulesHandler:     query.NewListSchedulesHandler(repo),
		getBatchHandler:          query.NewGetBatchHandler(repo),
		listBatchesHandler:       query.NewListBatchesHandler(repo),
		listItemsHandler:         query.NewListItemsHandler(repo),
		listResultsHandler:       query.NewListResultsHandler(repo),
		listNotificationsHandler: query.NewListNotificationsHandler(repo),
		accuracyHandler:          query.NewAccuracyReportHandler(repo),
		discrepancyHandler:       query.NewDiscrepancyReportHandler(repo),
		performanceHandler:       query.NewPerformanceReportHandler(repo),
		coverageHandler:          query.NewCoverageReportHandler(repo),
		cache:                    cache,
		requestCounter:           requestCounter,
		requestLatency:           requestLatency,
		resultsSubmitted:         resultsSubmitted,
		discrepanciesFound:       discrepanciesFound,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *CycleCountHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
	}
}

// --- SCHEDULE ENDPOINTS ---

// CreateSchedule handles POST /api/cycle-counts/schedules
func (h *CycleCountHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Frequency   string `json:"frequency"`
		Method      string `json:"method"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := command.CreateScheduleCommand{
		Name:        req.Name,
		Description: req.Description,
		Frequency:   req.Frequency,
		Method:      req.Method,
		ActorID:     actorID(r),
	}

	schedule, err := h.createScheduleHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Schedule created successfully",
		Data:    schedule,
	})
}

// GetSchedule handles GET /api/cycle-counts/schedules/{id}
func (h *CycleCountHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	schedule, err := h.getScheduleHandler.Handle(r.Context(), query.GetScheduleQuery{ScheduleID: id})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, Response{Success: true, Data: schedule})
}

// ListSchedules handles GET /api/cycle-counts/schedules
func (h *CycleCountHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	activeOnly := r.URL.Query().Get("active") == "true"

	schedules, err := h.listSchedulesHandler.Handle(r.Context(), query.ListSchedulesQuery{
		ActiveOnly: activeOnly,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, Response{Success: true, Data: schedules})
}

// UpdateSchedule handles PUT /api/cycle-counts/schedules/{id}
func (h *CycleCountHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Frequency   *string `json:"frequency"`
		Method      *string `json:"method"`
		IsActive    *bool   `json:"is_active"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := command.UpdateScheduleCommand{
		ScheduleID:  id,
		Name:        req.Name,
		Description: req.Description,
		Frequency:   req.Frequency,
		Method:      req.Method,
		IsActive:    req.IsActive,
		ActorID:     actorID(r),
	}

	schedule, err := h.updateScheduleHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Schedule updated successfully",
		Data:    schedule,
	})
}

// DeleteSchedule handles DELETE /api/cycle-counts/schedules/{id}
func (h *CycleCountHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.deleteScheduleHandler.Handle(r.Context(), command.DeleteScheduleCommand{
		ScheduleID: id,
		ActorID:    actorID(r),
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	message := "Schedule deleted successfully"
	if result.Deactivated {
		message = "Schedule has batches and was deactivated instead"
	}
	h.respondJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: result})
}

// --- BATCH ENDPOINTS ---

// CreateBatch handles POST /api/cycle-counts/batches
func (h *CycleCountHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScheduleID *uint      `json:"schedule_id"`
		Name       string     `json:"name"`
		StartDate  *time.Time `json:"start_date"`
		EndDate    *time.Time `json:"end_date"`
		Notes      string     `json:"notes"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := command.CreateBatchCommand{
		ScheduleID: req.ScheduleID,
		Name:       req.Name,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Notes:      req.Notes,
		ActorID:    actorID(r),
	}

	batch, err := h.createBatchHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Batch created successfully",
		Data:    batch,
	})
}

// GetBatch handles GET /api/cycle-counts/batches/{id}
func (h *CycleCountHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.getBatchHandler.Handle(r.Context(), query.GetBatchQuery{BatchID: id})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, Response{Success: true, Data: detail})
}

// ListBatches handles GET /api/cycle-counts/batches
func (h *CycleCountHandler) ListBatches(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	scheduleID, _ := strconv.ParseUint(r.URL.Query().Get("schedule_id"), 10, 32)

	batches, err := h.listBatchesHandler.Handle(r.Context(), query.ListBatchesQuery{
		Status:     r.URL.Query().Get("status"),
		ScheduleID: uint(scheduleID),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, Response{Success: true, Data: batches})
}

// UpdateBatch handles PUT /api/cycle-counts/batches/{id}
func (h *CycleCountHandler) UpdateBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Name      *string    `json:"name"`
		Status    *string    `json:"status"`
		StartDate *time.Time `json:"start_date"`
		EndDate   *time.Time `json:"end_date"`
		Notes     *string    `json:"notes"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := command.UpdateBatchCommand{
		BatchID:   id,
		Name:      req.Name,
		Status:    req.Status,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
		ActorID:   actorID(r),
	}

	batch, err := h.updateBatchHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Batch updated successfully",
		Data:    batch,
	})
}

// DeleteBatch handles DELETE /api/cycle-counts/batches/{id}
func (h *CycleCountHandler) DeleteBatch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.deleteBatchHandler.Handle(r.Context(), command.DeleteBatchCommand{
		BatchID: id,
		ActorID: actorID(r),
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	message := "Batch deleted successfully"
	if result.Cancelled {
		message = "Batch has recorded results and was cancelled instead"
	}
	h.respondJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: result})
}

// GenerateItems handles POST /api/cycle-counts/batches/{id}/items
func (h *CycleCountHandler) GenerateItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Method        string  `json:"method"`
		Kind          string  `json:"kind"`
		Location      string  `json:"location"`
		Category      string  `json:"category"`
		SampleSize    int     `json:"sample_size"`
		SamplePercent float64 `json:"sample_percent"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cmd := command.GenerateItemsCommand{
		BatchID: id,
		Params: sampler.Params{
			Method:        req.Method,
			Kind:          req.Kind,
			Location:      req.Location,
			Category:      req.Category,
			SampleSize:    req.SampleSize,
			SamplePercent: req.SamplePercent,
		},
		ActorID: actorID(r),
	}

	created, err := h.generateItemsHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Items generated successfully",
		Data:    map[string]int{"created": created},
	})
}

// ListItems handles GET /api/cycle-counts/batches/{id}/items
func (h *CycleCountHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	items, err := h.listItemsHandler.Handle(r.Context(), query.ListItemsQuery{
		BatchID: id,
		Status:  r.URL.Query().Get("status"),
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, Response{Success: true, Data: items})
}

// AssignItems handles POST /api/cycle-counts/batches/{id}/assign
func (h *CycleCountHandler) AssignItems(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Assignments []command.Assignment `json:"assignments"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.assignItemsHandler.Handle(r.Context(), command.AssignItemsCommand{
		BatchID:     id,
		Assignments: req.Assignments,
		ActorID:     actorID(r),
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Items assigned successfully",
		Data:    result,
	})
}

// --- RESULT ENDPOINTS ---

// SubmitResult handles POST /api/cycle-counts/items/{id}/results
func (h *CycleCountHandler) SubmitResult(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		ActualQuantity int    `json:"actual_quantity"`
		ActualLocation string `json:"actual_location"`
		Condition      string `json:"condition"`
		Notes          string `json:"notes"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.submitResultHandler.Handle(r.Context(), command.SubmitResultCommand{
		ItemID:         id,
		ActualQuantity: req.ActualQuantity,
		ActualLocation: req.ActualLocation,
		Condition:      req.Condition,
		Notes:          req.Notes,
		ActorID:        actorID(r),
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.resultsSubmitted.Inc()
	if result.HasDiscrepancy {
		h.discrepanciesFound.Inc()
	}

	h.respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Count result recorded successfully",
		Data:    result,
	})
}

// ListResults handles GET /api/cycle-counts/results
func (h *CycleCountHandler) ListResults(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	batchID, _ := strconv.ParseUint(r.URL.Query().Get("batch_id"), 10, 32)
	countedBy, _ := strconv.ParseUint(r.URL.Query().Get("counted_by"), 10, 32)

	results, err := h.listResultsHandler.Handle(r.Context(), query.ListResultsQuery{
		BatchID:           uint(batchID),
		CountedBy:         uint(countedBy),
		OnlyDiscrepancies: r.URL.Query().Get("discrepancies") == "true",
		Limit:             limit,
		Offset:            offset,
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, Response{Success: true, Data: results})
}

// ApproveAdjustment handles POST /api/cycle-counts/results/{id}/adjustments
func (h *CycleCountHandler) ApproveAdjustment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		AdjustmentType string `json:"adjustment_type"`
		NewValue       string `json:"new_value"`
		Notes          string `json:"notes"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	adjustment, err := h.approveAdjustmentHandler.Handle(r.Context(), command.ApproveAdjustmentCommand{
		ResultID:       id,
		AdjustmentType: req.AdjustmentType,
		NewValue:       req.NewValue,
		Notes:          req.Notes,
		ActorID:        actorID(r),
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Adjustment approved successfully",
		Data:    adjustment,
	})
}

// --- NOTIFICATION ENDPOINTS ---

// ListNotifications handles GET /api/cycle-counts/notifications
func (h *CycleCountHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	list, err := h.listNotificationsHandler.Handle(r.Context(), query.ListNotificationsQuery{
		UserID:     actorID(r),
		UnreadOnly: r.URL.Query().Get("unread") == "true",
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, Response{Success: true, Data: list})
}

// MarkNotificationRead handles PUT /api/cycle-counts/notifications/{id}/read
func (h *CycleCountHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	err := h.markReadHandler.Handle(r.Context(), command.MarkNotificationReadCommand{
		NotificationID: id,
		ActorID:        actorID(r),
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, Response{Success: true, Message: "Notification marked read"})
}

// MarkAllNotificationsRead handles PUT /api/cycle-counts/notifications/read-all
func (h *CycleCountHandler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	err := h.markAllReadHandler.Handle(r.Context(), command.MarkAllNotificationsReadCommand{
		ActorID: actorID(r),
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, Response{Success: true, Message: "All notifications marked read"})
}

// --- REPORT ENDPOINTS ---

// AccuracyReport handles GET /api/cycle-counts/reports/accuracy
func (h *CycleCountHandler) AccuracyReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.accuracyHandler.Handle(r.Context(), query.AccuracyReportQuery{
		Window:   reportWindow(r),
		Location: r.URL.Query().Get("location"),
		Category: r.URL.Query().Get("category"),
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, Response{Success: true, Data: report})
}

// DiscrepancyReport handles GET /api/cycle-counts/reports/discrepancies
func (h *CycleCountHandler) DiscrepancyReport(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	report, err := h.discrepancyHandler.Handle(r.Context(), query.DiscrepancyReportQuery{
		Window:   reportWindow(r),
		Location: r.URL.Query().Get("location"),
		Category: r.URL.Query().Get("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, Response{Success: true, Data: report})
}

// PerformanceReport handles GET /api/cycle-counts/reports/performance
func (h *CycleCountHandler) PerformanceReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.performanceHandler.Handle(r.Context(), query.PerformanceReportQuery{
		Window: reportWindow(r),
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, Response{Success: true, Data: report})
}

// CoverageReport handles GET /api/cycle-counts/reports/coverage
func (h *CycleCountHandler) CoverageReport(w http.ResponseWriter, r *http.Request) {
	uncountedCap, _ := strconv.Atoi(r.URL.Query().Get("uncounted_cap"))

	report, err := h.coverageHandler.Handle(r.Context(), query.CoverageReportQuery{
		Window:       reportWindow(r),
		Kind:         r.URL.Query().Get("kind"),
		Location:     r.URL.Query().Get("location"),
		Category:     r.URL.Query().Get("category"),
		UncountedCap: uncountedCap,
	})
	if err != nil {
		h.respondDomainError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, Response{Success: true, Data: report})
}

// RegisterRoutes registers all cycle count routes
func (h *CycleCountHandler) RegisterRoutes(router *mux.Router) {
	// Schedules
	router.HandleFunc("/api/cycle-counts/schedules", h.metricsMiddleware("/api/cycle-counts/schedules", AuthMiddleware(h.ListSchedules))).Methods("GET")
	router.HandleFunc("/api/cycle-counts/schedules", h.metricsMiddleware("/api/cycle-counts/schedules", AuthMiddleware(h.CreateSchedule))).Methods("POST")
	router.HandleFunc("/api/cycle-counts/schedules/{id}", h.metricsMiddleware("/api/cycle-counts/schedules/{id}", AuthMiddleware(h.GetSchedule))).Methods("GET")
	router.HandleFunc("/api/cycle-counts/schedules/{id}", h.metricsMiddleware("/api/cycle-counts/schedules/{id}", AuthMiddleware(h.UpdateSchedule))).Methods("PUT")
	router.HandleFunc("/api/cycle-counts/schedules/{id}", h.metricsMiddleware("/api/cycle-counts/schedules/{id}", AdminMiddleware(h.DeleteSchedule))).Methods("DELETE")

	// Batches
	router.HandleFunc("/api/cycle-counts/batches", h.metricsMiddleware("/api/cycle-counts/batches", AuthMiddleware(h.ListBatches))).Methods("GET")
	router.HandleFunc("/api/cycle-counts/batches", h.metricsMiddleware("/api/cycle-counts/batches", AuthMiddleware(h.CreateBatch))).Methods("POST")
	router.HandleFunc("/api/cycle-counts/batches/{id}", h.metricsMiddleware("/api/cycle-counts/batches/{id}", AuthMiddleware(h.GetBatch))).Methods("GET")
	router.HandleFunc("/api/cycle-counts/batches/{id}", h.metricsMiddleware("/api/cycle-counts/batches/{id}", AuthMiddleware(h.UpdateBatch))).Methods("PUT")
	router.HandleFunc("/api/cycle-counts/batches/{id}", h.metricsMiddleware("/api/cycle-counts/batches/{id}", AdminMiddleware(h.DeleteBatch))).Methods("DELETE")
	router.HandleFunc("/api/cycle-counts/batches/{id}/items", h.metricsMiddleware("/api/cycle-counts/batches/{id}/items", AuthMiddleware(h.ListItems))).Methods("GET")
	router.HandleFunc("/api/cycle-counts/batches/{id}/items", h.metricsMiddleware("/api/cycle-counts/batches/{id}/items", AuthMiddleware(h.GenerateItems))).Methods("POST")
	router.HandleFunc("/api/cycle-counts/batches/{id}/assign", h.metricsMiddleware("/api/cycle-counts/batches/{id}/assign", AuthMiddleware(h.AssignItems))).Methods("POST")

	// Results and adjustments
	router.HandleFunc("/api/cycle-counts/items/{id}/results", h.metricsMiddleware("/api/cycle-counts/items/{id}/results", AuthMiddleware(h.SubmitResult))).Methods("POST")
	router.HandleFunc("/api/cycle-counts/results", h.metricsMiddleware("/api/cycle-counts/results", AuthMiddleware(h.ListResults))).Methods("GET")
	router.HandleFunc("/api/cycle-counts/results/{id}/adjustments", h.metricsMiddleware("/api/cycle-counts/results/{id}/adjustments", ElevatedMiddleware(h.ApproveAdjustment))).Methods("POST")

	// Notifications
	router.HandleFunc("/api/cycle-counts/notifications", h.metricsMiddleware("/api/cycle-counts/notifications", AuthMiddleware(h.ListNotifications))).Methods("GET")
	router.HandleFunc("/api/cycle-counts/notifications/{id}/read", h.metricsMiddleware("/api/cycle-counts/notifications/{id}/read", AuthMiddleware(h.MarkNotificationRead))).Methods("PUT")
	router.HandleFunc("/api/cycle-counts/notifications/read-all", h.metricsMiddleware("/api/cycle-counts/notifications/read-all", AuthMiddleware(h.MarkAllNotificationsRead))).Methods("PUT")

	// Reports, cached when Redis is configured
	router.HandleFunc("/api/cycle-counts/reports/accuracy", h.metricsMiddleware("/api/cycle-counts/reports/accuracy", AuthMiddleware(reportCache(h.cache, h.AccuracyReport)))).Methods("GET")
	router.HandleFunc("/api/cycle-counts/reports/discrepancies", h.metricsMiddleware("/api/cycle-counts/reports/discrepancies", AuthMiddleware(reportCache(h.cache, h.DiscrepancyReport)))).Methods("GET")
	router.HandleFunc("/api/cycle-counts/reports/performance", h.metricsMiddleware("/api/cycle-counts/reports/performance", AuthMiddleware(reportCache(h.cache, h.PerformanceReport)))).Methods("GET")
	router.HandleFunc("/api/cycle-counts/reports/coverage", h.metricsMiddleware("/api/cycle-counts/reports/coverage", AuthMiddleware(reportCache(h.cache, h.CoverageReport)))).Methods("GET")
}

// RegisterHealthCheck registers health check endpoint
func (h *CycleCountHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			h.respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}

		h.respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Cycle count service is healthy",
		})
	}).Methods("GET")
}

// respondDomainError maps sentinel errors to HTTP statuses
func (h *CycleCountHandler) respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrDependency):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		logger.Error(r.Context()).Err(err).Str("path", r.URL.Path).Msg("Request failed")
	}
	h.respondError(w, status, err.Error())
}

// respondJSON sends a JSON response
func (h *CycleCountHandler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// respondError sends an error response
func (h *CycleCountHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, Response{Success: false, Error: message})
}

// actorID extracts the authenticated user id from the request context
func actorID(r *http.Request) uint {
	id, _ := r.Context().Value(UserIDKey).(uint)
	return id
}

// pathID parses the {name} path variable, responding with 400 on garbage
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars[name], 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// pagination parses limit/offset query parameters
func pagination(r *http.Request) (int, int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit == 0 {
		limit = 50
	}
	return limit, offset
}

// reportWindow parses from/to query parameters, accepting RFC3339 or dates
func reportWindow(r *http.Request) query.ReportWindow {
	return query.ReportWindow{
		From: parseTimeParam(r.URL.Query().Get("from")),
		To:   parseTimeParam(r.URL.Query().Get("to")),
	}
}

func parseTimeParam(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t
	}
	return time.Time{}
}
