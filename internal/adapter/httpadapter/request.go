package httpadapter

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/couchcryptid/sedbuilder/internal/adapter/sedapi"
	"github.com/couchcryptid/sedbuilder/internal/domain"
	"github.com/couchcryptid/sedbuilder/internal/render"
	"github.com/couchcryptid/sedbuilder/internal/table"
)

type sedRequest struct {
	ra, dec float64
	format  render.Format
	opts    render.Options
}

// parseSEDRequest reads ra, dec, format and, for jetset output, z, ul_cl,
// restframe, data_scale, obj_name and layout. The format is set on the
// returned request even when a later parameter fails.
func parseSEDRequest(q url.Values) (sedRequest, error) {
	var req sedRequest

	format, err := render.ParseFormat(q.Get("format"))
	if err != nil {
		return req, err
	}
	req.format = format

	if req.ra, err = floatParam(q, "ra", domain.ErrInvalidCoordinates); err != nil {
		return req, err
	}
	if req.dec, err = floatParam(q, "dec", domain.ErrInvalidCoordinates); err != nil {
		return req, err
	}

	if format != render.FormatJetset {
		return req, nil
	}

	z, err := floatParam(q, "z", table.ErrInvalidRedshift)
	if err != nil {
		return req, err
	}
	var opts []table.JetsetOption
	if q.Has("ul_cl") {
		cl, err := floatParam(q, "ul_cl", table.ErrInvalidULConfidence)
		if err != nil {
			return req, err
		}
		opts = append(opts, table.WithULConfidence(cl))
	}
	if q.Has("restframe") {
		opts = append(opts, table.WithRestframe(q.Get("restframe")))
	}
	if q.Has("data_scale") {
		opts = append(opts, table.WithDataScale(q.Get("data_scale")))
	}
	if q.Has("obj_name") {
		opts = append(opts, table.WithObjectName(q.Get("obj_name")))
	}
	if q.Get("layout") == "legacy" {
		opts = append(opts, table.WithLegacyLayout())
	}

	params, err := table.NewJetsetParams(z, opts...)
	if err != nil {
		return req, err
	}
	req.opts.Jetset = &params
	return req, nil
}

func floatParam(q url.Values, name string, sentinel error) (float64, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, &domain.InputError{Field: name, Value: raw, Reason: "is required", Err: sentinel}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &domain.InputError{Field: name, Value: raw, Reason: "is not a number", Err: sentinel}
	}
	return v, nil
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, sedapi.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, sedapi.ErrRequestFailed),
		errors.Is(err, sedapi.ErrConnectionFailed),
		errors.Is(err, domain.ErrSchemaValidation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
