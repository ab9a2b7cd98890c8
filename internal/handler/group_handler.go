package handler

import (
	"net/http"

	"github.com/tvsubram/chitfund-api/internal/domain"
	"github.com/tvsubram/chitfund-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ============================================================
// Groups — /v1/groups
// ============================================================

func createGroupHandler(svc *service.GroupService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/groups")
		defer span.End()

		var req domain.CreateGroupRequest
		if !decodeBody(w, r, &req) {
			return
		}

		group, err := svc.CreateGroup(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, domain.OK(group))
	}
}

func listGroupsHandler(svc *service.GroupService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/groups")
		defer span.End()

		groups, err := svc.ListGroups(ctx,
			r.URL.Query().Get("branch_id"),
			domain.GroupStatus(r.URL.Query().Get("status")),
		)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OKList(groups, len(groups)))
	}
}

func getGroupHandler(svc *service.GroupService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/groups/{groupId}")
		defer span.End()

		group, err := svc.GetGroup(ctx, chi.URLParam(r, "groupId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(group))
	}
}

func updateGroupHandler(svc *service.GroupService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/groups/{groupId}")
		defer span.End()

		var updates map[string]any
		if !decodeBody(w, r, &updates) {
			return
		}

		group, err := svc.UpdateGroup(ctx, chi.URLParam(r, "groupId"), updates)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(group))
	}
}

func deleteGroupHandler(svc *service.GroupService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/groups/{groupId}")
		defer span.End()

		if err := svc.DeleteGroup(ctx, chi.URLParam(r, "groupId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OKMessage("group deleted"))
	}
}

func listGroupMembersHandler(svc *service.GroupService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/groups/{groupId}/members")
		defer span.End()

		members, err := svc.ListGroupMembers(ctx, chi.URLParam(r, "groupId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OKList(members, len(members)))
	}
}

func addGroupMemberHandler(svc *service.GroupService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/groups/{groupId}/members")
		defer span.End()

		var req domain.AddGroupMemberRequest
		if !decodeBody(w, r, &req) {
			return
		}

		gm, err := svc.AddMember(ctx, chi.URLParam(r, "groupId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, domain.OK(gm))
	}
}

func removeGroupMemberHandler(svc *service.GroupService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/groups/{groupId}/members/{memberId}")
		defer span.End()

		if err := svc.RemoveMember(ctx, chi.URLParam(r, "groupId"), chi.URLParam(r, "memberId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OKMessage("member removed from group"))
	}
}

func advanceGroupMonthHandler(svc *service.GroupService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/groups/{groupId}/advance")
		defer span.End()

		group, err := svc.AdvanceMonth(ctx, chi.URLParam(r, "groupId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.OK(group))
	}
}
