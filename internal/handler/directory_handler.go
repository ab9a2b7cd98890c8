package handler

import (
	"net/http"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Branches — /v1/branches
// ============================================================

func createBranchHandler(svc *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/branches")
		defer span.End()

		var req domain.CreateBranchRequest
		if !decodeBody(w, r, &req) {
			return
		}

		branch, err := svc.CreateBranch(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, domain.OK(branch))
	}
}

func listBranchesHandler(svc *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/branches")
		defer span.End()

		activeOnly := r.URL.Query().Get("active") == "true"
		branches, err := svc.ListBranches(ctx, activeOnly)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OKList(branches, len(branches)))
	}
}

func getBranchHandler(svc *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/branches/{branchId}")
		defer span.End()

		branch, err := svc.GetBranch(ctx, chi.URLParam(r, "branchId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(branch))
	}
}

func updateBranchHandler(svc *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/branches/{branchId}")
		defer span.End()

		var updates map[string]any
		if !decodeBody(w, r, &updates) {
			return
		}

		branch, err := svc.UpdateBranch(ctx, chi.URLParam(r, "branchId"), updates)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(branch))
	}
}

func deactivateBranchHandler(svc *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/branches/{branchId}")
		defer span.End()

		if err := svc.DeactivateBranch(ctx, chi.URLParam(r, "branchId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OKMessage("branch deactivated"))
	}
}

// ============================================================
// Employees — /v1/employees
// ============================================================

func createEmployeeHandler(svc *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/employees")
		defer span.End()

		var req domain.CreateEmployeeRequest
		if !decodeBody(w, r, &req) {
			return
		}

		emp, err := svc.CreateEmployee(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, domain.OK(emp))
	}
}

func listEmployeesHandler(svc *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/employees")
		defer span.End()

		employees, err := svc.ListEmployees(ctx, r.URL.Query().Get("branch_id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OKList(employees, len(employees)))
	}
}

func getEmployeeHandler(svc *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/employees/{employeeId}")
		defer span.End()

		emp, err := svc.GetEmployee(ctx, chi.URLParam(r, "employeeId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(emp))
	}
}

func updateEmployeeHandler(svc *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/employees/{employeeId}")
		defer span.End()

		var updates map[string]any
		if !decodeBody(w, r, &updates) {
			return
		}

		emp, err := svc.UpdateEmployee(ctx, chi.URLParam(r, "employeeId"), updates)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(emp))
	}
}

// ============================================================
// Members — /v1/members
// ============================================================

func createMemberHandler(svc *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/members")
		defer span.End()

		var req domain.CreateMemberRequest
		if !decodeBody(w, r, &req) {
			return
		}

		member, err := svc.CreateMember(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, domain.OK(member))
	}
}

func listMembersHandler(svc *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/members")
		defer span.End()

		page, pageSize := parsePagination(r)
		members, total, err := svc.ListMembers(ctx, r.URL.Query().Get("branch_id"), page, pageSize)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OKList(members, total))
	}
}

func getMemberHandler(svc *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/members/{memberId}")
		defer span.End()

		member, err := svc.GetMember(ctx, chi.URLParam(r, "memberId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(member))
	}
}

func updateMemberHandler(svc *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/members/{memberId}")
		defer span.End()

		var updates map[string]any
		if !decodeBody(w, r, &updates) {
			return
		}

		member, err := svc.UpdateMember(ctx, chi.URLParam(r, "memberId"), updates)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(member))
	}
}

func deleteMemberHandler(svc *service.DirectoryService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/members/{memberId}")
		defer span.End()

		if err := svc.DeleteMember(ctx, chi.URLParam(r, "memberId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OKMessage("member deleted"))
	}
}
