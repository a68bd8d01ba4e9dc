package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/amenitybook/reservation-api/internal/api/metrics"
	"github.com/amenitybook/reservation-api/internal/core/domain"
	"github.com/amenitybook/reservation-api/internal/pkg/csvrecords"
)

// CSVHandler decodes uploaded delimited files into header-keyed records.
type CSVHandler struct {
	delimiter rune
	log       zerolog.Logger
}

func NewCSVHandler(delimiter rune, log zerolog.Logger) *CSVHandler {
	return &CSVHandler{delimiter: delimiter, log: log}
}

// Parse handles POST /api/csv/parse.
//
// @Summary      Decode an uploaded CSV file
// @Tags         csv
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Delimited file with a header row"
// @Success      200   {array}   map[string]string
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/csv/parse [post]
func (h *CSVHandler) Parse(c echo.Context) error {
	principal, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			metrics.CSVUploadsTotal.WithLabelValues("invalid").Inc()
			return echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
		}
		return fmt.Errorf("read upload: %w", err)
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	records, err := csvrecords.Decode(f, csvrecords.Options{Delimiter: h.delimiter})
	if err != nil {
		if errors.Is(err, csvrecords.ErrMalformed) {
			metrics.CSVUploadsTotal.WithLabelValues("invalid").Inc()
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		return fmt.Errorf("decode upload: %w", err)
	}

	metrics.CSVUploadsTotal.WithLabelValues("ok").Inc()
	h.log.Info().
		Int64("user_id", principal.ID).
		Str("filename", fh.Filename).
		Int("records", len(records)).
		Msg("csv decoded")

	return c.JSON(http.StatusOK, records)
}
