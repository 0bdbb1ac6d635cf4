package controllers

import (
	"net/http"
	"time"

	"github.com/tillpoint/pos-terminal/api/responses"
	"github.com/tillpoint/pos-terminal/api/validators"
	"github.com/tillpoint/pos-terminal/internal/scanner"
	"github.com/tillpoint/pos-terminal/pkg/enums"
	pkgerrors "github.com/tillpoint/pos-terminal/pkg/errors"
	"github.com/tillpoint/pos-terminal/pkg/logger"
)

type keyEventPayload struct {
	Key           string `json:"key" validate:"required"`
	AtMs          int64  `json:"at_ms" validate:"required"`
	FromTextInput bool   `json:"from_text_input"`
}

type scannerEventsRequest struct {
	Events []keyEventPayload `json:"events" validate:"required,min=1,max=512"`
}

type scanResultView struct {
	Code    string `json:"code"`
	Outcome string `json:"outcome"`
	Product any    `json:"product,omitempty"`
	Message string `json:"message,omitempty"`
}

type scannerEventsResponse struct {
	Results []scanResultView `json:"results"`
	// OpenCart tells the register UI to surface the cart view because at
	// least one scan landed in it.
	OpenCart bool `json:"open_cart"`
}

// ScannerEvents feeds a batch of raw keystrokes into the burst decoder and
// reports what each completed barcode resolved to.
func ScannerEvents(svc *scanner.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "scanner service unavailable"))
			return
		}

		var payload scannerEventsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		events := make([]scanner.KeyEvent, len(payload.Events))
		for i, ev := range payload.Events {
			events[i] = scanner.KeyEvent{
				Key:           ev.Key,
				At:            time.UnixMilli(ev.AtMs),
				FromTextInput: ev.FromTextInput,
			}
		}

		results := svc.ProcessEvents(r.Context(), events)

		out := scannerEventsResponse{Results: make([]scanResultView, len(results))}
		for i, res := range results {
			view := scanResultView{
				Code:    res.Code,
				Outcome: res.Outcome.String(),
				Message: res.Message,
			}
			if res.Product != nil {
				view.Product = res.Product
			}
			if res.Outcome == enums.ScanOutcomeAdded {
				out.OpenCart = true
			}
			out.Results[i] = view
		}
		responses.WriteSuccess(w, out)
	}
}
