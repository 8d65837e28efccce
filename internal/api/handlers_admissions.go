package api

import (
	"encoding/json"
	"net/http"

	"hospital-ops/internal/admission"
)

func createAdmissionHandler(svc *admission.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAdmissionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		adm, err := svc.Create(r.Context(), admission.CreateInput{
			PatientID:         req.PatientID,
			RoomID:            req.RoomID,
			AttendingDoctorID: req.AttendingDoctorID,
			AdmittedAt:        req.AdmittedAt,
			Note:              req.Note,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toAdmissionResponse(adm))
	}
}

func listAdmissionsHandler(svc *admission.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		details, err := svc.List(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]AdmissionResponse, 0, len(details))
		for i := range details {
			resp = append(resp, toAdmissionResponse(&details[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getAdmissionHandler(svc *admission.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		adm, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAdmissionResponse(adm))
	}
}

func dischargeAdmissionHandler(svc *admission.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		var req DischargeAdmissionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		adm, err := svc.Discharge(r.Context(), id, admission.DischargeInput{
			DischargedAt: req.DischargedAt,
			Note:         req.Note,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toAdmissionResponse(adm))
	}
}

func deleteAdmissionHandler(svc *admission.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			writeDomainError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
