package http

import (
	"net/http"

	"focolare/internal/core"
)

type groupRequest struct {
	Name           string `json:"name"`
	JointColor     string `json:"joint_color"`
	BudgetStartDay int    `json:"budget_start_day"`
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	group := &core.Group{
		Name:           req.Name,
		JointColor:     req.JointColor,
		BudgetStartDay: req.BudgetStartDay,
	}
	created, err := s.services.Groups.CreateShared(r.Context(), userIDFrom(r.Context()), group)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGroupResponse(created))
}

func (s *Server) handleListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.services.Groups.ListMine(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]groupResponse, len(groups))
	for i := range groups {
		out[i] = toGroupResponse(&groups[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.services.Groups.FindByID(r.Context(), userIDFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	group, err := s.services.Groups.UpdateSettings(r.Context(), userIDFrom(r.Context()),
		r.PathValue("id"), req.Name, req.JointColor, req.BudgetStartDay)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupResponse(group))
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.services.Groups.ListMembers(r.Context(), userIDFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]membershipResponse, len(members))
	for i, m := range members {
		out[i] = toMembershipResponse(m)
	}
	writeJSON(w, http.StatusOK, out)
}

type inviteRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleInvite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	membership, err := s.services.Groups.Invite(r.Context(), userIDFrom(r.Context()), r.PathValue("id"), req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMembershipResponse(*membership))
}

func (s *Server) handleAcceptInvite(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Groups.AcceptInvite(r.Context(), userIDFrom(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	feed, err := s.services.Groups.ListActivity(r.Context(), userIDFrom(r.Context()), r.PathValue("id"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]activityResponse, len(feed))
	for i, a := range feed {
		out[i] = toActivityResponse(a)
	}
	writeJSON(w, http.StatusOK, out)
}
