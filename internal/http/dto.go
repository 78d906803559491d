package http

import (
	"fmt"
	"time"

	"focolare/internal/core"
)

// Wire representations. Dates travel as "2006-01-02" strings, times of day
// as "15:04"; optional fields are pointers so null round-trips cleanly.

type scheduleResponse struct {
	ID            string  `json:"id"`
	GroupID       string  `json:"group_id"`
	AuthorID      string  `json:"author_id"`
	Title         string  `json:"title"`
	StartDate     string  `json:"start_date"`
	EndDate       *string `json:"end_date"`
	StartTime     *string `json:"start_time"`
	EndTime       *string `json:"end_time"`
	AllDay        bool    `json:"all_day"`
	AssetType     string  `json:"asset_type"`
	Category      string  `json:"category"`
	Memo          string  `json:"memo,omitempty"`
	RepeatType    string  `json:"repeat_type"`
	RepeatGroupID string  `json:"repeat_group_id,omitempty"`
}

func toScheduleResponse(s *core.Schedule) scheduleResponse {
	resp := scheduleResponse{
		ID:            s.ID,
		GroupID:       s.GroupID,
		AuthorID:      s.AuthorID,
		Title:         s.Title,
		StartDate:     s.StartDate.String(),
		AllDay:        s.AllDay,
		AssetType:     string(s.AssetType),
		Category:      string(s.Category),
		Memo:          s.Memo,
		RepeatType:    string(s.RepeatType),
		RepeatGroupID: s.RepeatGroupID,
	}
	if s.EndDate != nil {
		v := s.EndDate.String()
		resp.EndDate = &v
	}
	if s.StartTime != nil {
		v := s.StartTime.String()
		resp.StartTime = &v
	}
	if s.EndTime != nil {
		v := s.EndTime.String()
		resp.EndTime = &v
	}
	return resp
}

func toScheduleResponses(schedules []core.Schedule) []scheduleResponse {
	out := make([]scheduleResponse, len(schedules))
	for i := range schedules {
		out[i] = toScheduleResponse(&schedules[i])
	}
	return out
}

type scheduleRequest struct {
	Title     string  `json:"title"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
	AllDay    bool    `json:"all_day"`
	AssetType string  `json:"asset_type"`
	Category  string  `json:"category"`
	Memo      string  `json:"memo"`
	// Creation only; ignored on update.
	RepeatType string  `json:"repeat_type"`
	RepeatEnd  *string `json:"repeat_end"`
}

func parseOptionalDate(s *string) (*core.Date, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := core.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseOptionalTime(s *string) (*core.TimeOfDay, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := core.ParseTimeOfDay(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type groupResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Kind           string    `json:"kind"`
	HostID         string    `json:"host_id"`
	JointColor     string    `json:"joint_color,omitempty"`
	BudgetStartDay int       `json:"budget_start_day"`
	CreatedAt      time.Time `json:"created_at"`
}

func toGroupResponse(g *core.Group) groupResponse {
	return groupResponse{
		ID:             g.ID,
		Name:           g.Name,
		Kind:           string(g.Kind),
		HostID:         g.HostID,
		JointColor:     g.JointColor,
		BudgetStartDay: g.BudgetStartDay,
		CreatedAt:      g.CreatedAt,
	}
}

type membershipResponse struct {
	GroupID   string    `json:"group_id"`
	UserID    string    `json:"user_id"`
	Status    string    `json:"status"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func toMembershipResponse(m core.Membership) membershipResponse {
	return membershipResponse{
		GroupID:   m.GroupID,
		UserID:    m.UserID,
		Status:    string(m.Status),
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
	}
}

type transactionResponse struct {
	ID            string    `json:"id"`
	GroupID       string    `json:"group_id"`
	AuthorID      string    `json:"author_id"`
	Date          string    `json:"date"`
	AmountCents   int64     `json:"amount_cents"`
	Payee         string    `json:"payee"`
	CategoryID    string    `json:"category_id"`
	AssetType     string    `json:"asset_type"`
	AssetSourceID string    `json:"asset_source_id,omitempty"`
	Memo          string    `json:"memo,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toTransactionResponse(t *core.Transaction) transactionResponse {
	return transactionResponse{
		ID:            t.ID,
		GroupID:       t.GroupID,
		AuthorID:      t.AuthorID,
		Date:          t.Date.String(),
		AmountCents:   t.Amount.Cents,
		Payee:         t.Payee,
		CategoryID:    t.CategoryID,
		AssetType:     string(t.AssetType),
		AssetSourceID: t.AssetSourceID,
		Memo:          t.Memo,
		CreatedAt:     t.CreatedAt,
	}
}

type transactionRequest struct {
	Date          string `json:"date"`
	AmountCents   int64  `json:"amount_cents"`
	Amount        string `json:"amount"`
	Payee         string `json:"payee"`
	CategoryID    string `json:"category_id"`
	AssetType     string `json:"asset_type"`
	AssetSourceID string `json:"asset_source_id"`
	Memo          string `json:"memo"`
}

// amountCents accepts either integer cents or a decimal string; cents win
// when both are present.
func (r transactionRequest) amountCents() (int64, error) {
	if r.AmountCents != 0 {
		return r.AmountCents, nil
	}
	if r.Amount != "" {
		return core.ParseDecimalToCents(r.Amount)
	}
	return 0, fmt.Errorf("%w: amount required", core.ErrInvalidInput)
}

type categoryResponse struct {
	ID      string `json:"id"`
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
}

func toCategoryResponse(c *core.Category) categoryResponse {
	return categoryResponse{ID: c.ID, GroupID: c.GroupID, Name: c.Name, Kind: string(c.Kind)}
}

type assetSourceResponse struct {
	ID      string `json:"id"`
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
	Color   string `json:"color,omitempty"`
}

func toAssetSourceResponse(a *core.AssetSource) assetSourceResponse {
	return assetSourceResponse{ID: a.ID, GroupID: a.GroupID, Name: a.Name, Color: a.Color}
}

type activityResponse struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group_id"`
	ActorID   string    `json:"actor_id"`
	Kind      string    `json:"kind"`
	RefID     string    `json:"ref_id,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toActivityResponse(a core.Activity) activityResponse {
	return activityResponse{
		ID:        a.ID,
		GroupID:   a.GroupID,
		ActorID:   a.ActorID,
		Kind:      a.Kind,
		RefID:     a.RefID,
		Message:   a.Message,
		CreatedAt: a.CreatedAt,
	}
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *core.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Nickname: u.Nickname, CreatedAt: u.CreatedAt}
}
