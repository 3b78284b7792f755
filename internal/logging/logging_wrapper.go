package logging

import (
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// LoggingWrapper adapts a plain handler that reports failures as errors. Each
// request gets its own LogData.
func LoggingWrapper(
	loggingName string,
	log *logrus.Logger,
	handler func(http.ResponseWriter, *http.Request, *LogData) error,
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		logData := NewLogData(log)
		logData.AddData("requestID", middleware.GetReqID(req.Context()))
		log.Debugf("Handler.%v.Start", loggingName)

		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		endTimer := logData.AddTiming("durationMs")
		err := handler(ww, req.WithContext(WithLogData(req.Context(), logData)), logData)
		endTimer()
		logData.AddData("status", ww.Status())

		if err != nil {
			logData.Log().WithError(err).Errorf("Handler.%v.Error", loggingName)
			return
		}

		logData.Log().Infof("Handler.%v.Complete", loggingName)
	}
}

// HumaMiddleware gives every huma operation a LogData and logs its outcome
// under the operation ID.
func HumaMiddleware(log *logrus.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		loggingName := "Unknown"
		if op := ctx.Operation(); op != nil {
			loggingName = op.OperationID
		}

		logData := NewLogData(log)
		logData.AddData("requestID", middleware.GetReqID(ctx.Context()))
		logData.AddData("method", ctx.Method())
		logData.AddData("path", ctx.URL().Path)
		log.Debugf("Handler.%v.Start", loggingName)

		endTimer := logData.AddTiming("durationMs")
		next(huma.WithValue(ctx, logDataKey{}, logData))
		endTimer()

		status := ctx.Status()
		logData.AddData("status", status)

		message := fmt.Sprintf("Handler.%v.Complete", loggingName)
		switch {
		case status >= http.StatusInternalServerError:
			logData.Log().Error(fmt.Sprintf("Handler.%v.Error", loggingName))
		case status >= http.StatusBadRequest:
			logData.Log().Warn(message)
		default:
			logData.Log().Info(message)
		}
	}
}
