package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

var errInvalidParam = errors.New("invalid path parameter")

// PathInt64 положительный int64 из пути
func PathInt64(r *http.Request, name string) (int64, error) {
	v, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || v <= 0 {
		return 0, errInvalidParam
	}
	return v, nil
}

// PathUUID UUID из пути
func PathUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		return uuid.Nil, errInvalidParam
	}
	return id, nil
}

// ParseDate дата YYYY-MM-DD в указанной зоне
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(domain.DateFormat, s, loc)
}

// OptionalDate дата из query параметра или nil, если параметр не задан
func OptionalDate(r *http.Request, name string, loc *time.Location) (*time.Time, error) {
	s := QueryParam(r, name)
	if s == "" {
		return nil, nil
	}
	d, err := ParseDate(s, loc)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// OptionalStatus фильтр статуса из query параметра status
func OptionalStatus(r *http.Request) (*string, error) {
	s := QueryParam(r, "status")
	if s == "" {
		return nil, nil
	}
	if _, err := domain.ParseBookingStatus(s); err != nil {
		return nil, err
	}
	return &s, nil
}
