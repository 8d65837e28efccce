package api

import (
	"net/http"

	"hospital-ops/internal/registry"
)

func listPatientsHandler(reg registry.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		patients, err := reg.ListPatients(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]PatientResponse, 0, len(patients))
		for _, p := range patients {
			resp = append(resp, toPatientResponse(p))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getPatientHandler(reg registry.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		p, err := reg.GetPatient(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPatientResponse(*p))
	}
}

func listDoctorsHandler(reg registry.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doctors, err := reg.ListDoctors(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]DoctorResponse, 0, len(doctors))
		for _, d := range doctors {
			resp = append(resp, toDoctorResponse(d))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getDoctorHandler(reg registry.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		d, err := reg.GetDoctor(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toDoctorResponse(*d))
	}
}

func listDepartmentsHandler(reg registry.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		departments, err := reg.ListDepartments(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]DepartmentResponse, 0, len(departments))
		for i := range departments {
			resp = append(resp, *toDepartmentResponse(&departments[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getDepartmentHandler(reg registry.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		d, err := reg.GetDepartment(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, *toDepartmentResponse(d))
	}
}

func listRoomsHandler(reg registry.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms, err := reg.ListRooms(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}

		resp := make([]RoomResponse, 0, len(rooms))
		for i := range rooms {
			resp = append(resp, toRoomResponse(&rooms[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getRoomHandler(reg registry.Reader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(w, r)
		if !ok {
			return
		}

		room, err := reg.GetRoom(r.Context(), id)
		if err != nil {
			writeDomainError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toRoomResponse(room))
	}
}
