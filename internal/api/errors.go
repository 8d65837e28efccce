package api

import (
	"errors"
	"net/http"

	"hospital-ops/internal/admission"
	"hospital-ops/internal/redisclient"
	"hospital-ops/internal/registry"
	"hospital-ops/internal/scheduling"
	"hospital-ops/internal/visit"
)

// writeDomainError maps service errors onto the HTTP taxonomy: unresolved
// references are 404, structural input problems 400, violated domain
// invariants (and lock contention) 409, everything else 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, registry.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, registry.ErrDepartmentNotFound):
		writeError(w, http.StatusNotFound, "department_not_found", err.Error())
	case errors.Is(err, registry.ErrRoomNotFound):
		writeError(w, http.StatusNotFound, "room_not_found", err.Error())
	case errors.Is(err, scheduling.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, admission.ErrAdmissionNotFound):
		writeError(w, http.StatusNotFound, "admission_not_found", err.Error())
	case errors.Is(err, visit.ErrVisitNotFound):
		writeError(w, http.StatusNotFound, "visit_not_found", err.Error())

	case errors.Is(err, scheduling.ErrInvalidTimeRange):
		writeError(w, http.StatusBadRequest, "invalid_time_range", err.Error())
	case errors.Is(err, scheduling.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, admission.ErrDischargeBeforeAdmit):
		writeError(w, http.StatusBadRequest, "invalid_discharge_time", err.Error())

	case errors.Is(err, scheduling.ErrDoctorBusy):
		writeError(w, http.StatusConflict, "doctor_busy", err.Error())
	case errors.Is(err, admission.ErrRoomFull):
		writeError(w, http.StatusConflict, "room_full", err.Error())
	case errors.Is(err, admission.ErrAlreadyDischarged):
		writeError(w, http.StatusConflict, "already_discharged", err.Error())
	case errors.Is(err, scheduling.ErrScheduleBusy),
		errors.Is(err, admission.ErrRoomBusy),
		errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "resource_busy", "a concurrent booking is in progress, please retry shortly")

	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
