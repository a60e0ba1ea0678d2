package api

import (
	"time"

	"SignalDesk/internal/domain/models"
	domrepo "SignalDesk/internal/domain/repository"
	"SignalDesk/internal/usecase"
	xhttp "SignalDesk/pkg/http"
	xlogger "SignalDesk/pkg/logger"

	"github.com/labstack/echo/v4"
)

// DecisionsEchoHandler exposes the decision engine and backtester over HTTP.
type DecisionsEchoHandler struct {
	logger    *xlogger.Logger
	decide    *usecase.DecideUseCase
	backtest  *usecase.BacktestUseCase
	signalLog domrepo.SignalLog
	store     domrepo.CandleStore
}

func NewDecisionsEchoHandler(
	logger *xlogger.Logger,
	decide *usecase.DecideUseCase,
	backtest *usecase.BacktestUseCase,
	signalLog domrepo.SignalLog,
	store domrepo.CandleStore,
) *DecisionsEchoHandler {
	return &DecisionsEchoHandler{
		logger:    logger,
		decide:    decide,
		backtest:  backtest,
		signalLog: signalLog,
		store:     store,
	}
}

func (h *DecisionsEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	g := e.Group("/api")
	g.GET("/decision", h.Decide)
	g.POST("/backtest", h.Backtest)
	g.GET("/signals", h.History)
}

func (h *DecisionsEchoHandler) Decide(c echo.Context) error {
	req := &models.DecisionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	at := xhttp.ParseTimeDefault(req.At, time.Now().UTC())

	res, err := h.decide.Decide(c.Request().Context(), req.Symbol, at)
	if err != nil {
		h.logger.Error("decide usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DecisionsEchoHandler) Backtest(c echo.Context) error {
	req := &models.BacktestRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from, ok := xhttp.ParseTime(req.From)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("unparseable from: %q", req.From))
	}
	to, ok := xhttp.ParseTime(req.To)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("unparseable to: %q", req.To))
	}

	res, err := h.backtest.Run(c.Request().Context(), usecase.RunParams{
		Symbol: req.Symbol,
		From:   from,
		To:     to,
		Warmup: req.Warmup,
	})
	if err != nil {
		h.logger.Error("backtest usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *DecisionsEchoHandler) History(c echo.Context) error {
	req := &models.HistoryRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	from := xhttp.ParseTimeDefault(req.From, time.Time{})
	to := xhttp.ParseTimeDefault(req.To, time.Now().UTC())
	limit := req.Limit
	if limit <= 0 {
		limit = 100
	}

	recs, err := h.signalLog.List(c.Request().Context(), req.Symbol, from, to, limit)
	if err != nil {
		h.logger.Error("signal history error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, recs, int64(len(recs)))
}

func (h *DecisionsEchoHandler) Health(c echo.Context) error {
	if err := h.store.Health(c.Request().Context()); err != nil {
		h.logger.Warn("candle store unhealthy", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalError("candle store unavailable"))
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}
