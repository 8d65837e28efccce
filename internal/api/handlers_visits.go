package api

import (
	"encoding/json"
	"net/http"

	"hospital-ops/internal/visit"
)

func createVisitHandler(svc *visit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateVisitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		v, err := svc.Create(r.Context(), visit.CreateInput{
			PatientID:     req.PatientID,
			DoctorID:      req.DoctorID,
			AppointmentID: req.AppointmentID,
			VisitTime:     req.VisitTime,
			Complaint:     req.Complaint,
			Diagnosis:     req.Diagnosis,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toVisitResponse(v))
	}
}

func listVisitsHandler(svc *visit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		details, err := svc.List(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]VisitResponse, 0, len(details))
		for i := range details {
			resp = append(resp, toVisitResponse(&details[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getVisitHandler(svc *visit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		v, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toVisitResponse(v))
	}
}

func addMedicalRecordHandler(svc *visit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		var req CreateMedicalRecordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		rec, err := svc.AddMedicalRecord(r.Context(), id, visit.MedicalRecordInput{
			RecordType: req.RecordType,
			Content:    req.Content,
		})
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicalRecordResponse(*rec))
	}
}

func addPrescriptionHandler(svc *visit.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		var req CreatePrescriptionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		in := visit.PrescriptionInput{Note: req.Note}
		for _, it := range req.Items {
			in.Items = append(in.Items, visit.PrescriptionItemInput{
				DrugName:     it.DrugName,
				Dosage:       it.Dosage,
				Frequency:    it.Frequency,
				DurationDays: it.DurationDays,
				Instructions: it.Instructions,
			})
		}

		p, err := svc.AddPrescription(r.Context(), id, in)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPrescriptionResponse(*p))
	}
}

func deleteVisitHandler(svc *visit.Service) http.HandlerFunc {
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
