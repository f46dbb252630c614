// Package grpcserver implements the TrackerService gRPC server.
//
// It delegates all business logic to the tracker service and handles
// only the gRPC transport concerns: metadata extraction, error mapping,
// and conversion between the domain model and Struct messages.
package grpcserver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"jobmate/application-tracker/internal/application"
	"jobmate/application-tracker/internal/insights"
)

type trackerService interface {
	ListApplications(ctx context.Context, userID uuid.UUID, q insights.Query) ([]application.JobApplication, error)
	Dashboard(ctx context.Context, userID uuid.UUID) (insights.Stats, error)
	Reminders(ctx context.Context, userID uuid.UUID) ([]insights.Reminder, error)
	ExportCSV(ctx context.Context, userID uuid.UUID) (filename, body string, err error)
}

// Server implements TrackerServiceServer.
type Server struct {
	svc trackerService
}

// NewServer constructs a gRPC Server backed by svc.
func NewServer(svc trackerService) *Server {
	return &Server{svc: svc}
}

// ─── RPC implementations ─────────────────────────────────────────────────────

// ListApplications returns the caller's applications matching the optional
// "search", "status" and "type" request fields.
func (s *Server) ListApplications(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	q, err := insights.ParseQuery(stringField(req, "search"), stringField(req, "status"), stringField(req, "type"))
	if err != nil {
		return nil, toGRPCError(err)
	}

	apps, err := s.svc.ListApplications(ctx, userID, q)
	if err != nil {
		return nil, toGRPCError(err)
	}

	list := make([]any, 0, len(apps))
	for i := range apps {
		list = append(list, appToMap(&apps[i]))
	}
	return newStruct(map[string]any{"applications": list})
}

// GetDashboard returns the caller's dashboard statistics.
func (s *Server) GetDashboard(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	stats, err := s.svc.Dashboard(ctx, userID)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return newStruct(statsToMap(stats))
}

// ListReminders returns the caller's visible follow-up reminders.
func (s *Server) ListReminders(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	reminders, err := s.svc.Reminders(ctx, userID)
	if err != nil {
		return nil, toGRPCError(err)
	}

	list := make([]any, 0, len(reminders))
	for _, r := range reminders {
		list = append(list, map[string]any{
			"application":    appToMap(&r.Application),
			"follow_up_date": r.FollowUpDate.String(),
			"days_until":     r.DaysUntil,
			"is_overdue":     r.IsOverdue,
			"is_today":       r.IsToday,
			"is_tomorrow":    r.IsTomorrow,
			"urgency":        string(r.Urgency),
			"message":        r.Message,
		})
	}
	return newStruct(map[string]any{"reminders": list})
}

// ExportCSV returns the caller's CSV export and its suggested filename.
func (s *Server) ExportCSV(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	userID, err := userIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	filename, body, err := s.svc.ExportCSV(ctx, userID)
	if err != nil {
		return nil, toGRPCError(err)
	}
	return newStruct(map[string]any{"filename": filename, "csv": body})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// userIDFromCtx extracts the x-user-id value forwarded by the Gateway
// via gRPC metadata.
func userIDFromCtx(ctx context.Context) (uuid.UUID, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return uuid.Nil, status.Error(codes.Unauthenticated, "missing metadata")
	}
	vals := md.Get("x-user-id")
	if len(vals) == 0 || vals[0] == "" {
		return uuid.Nil, status.Error(codes.Unauthenticated, "missing x-user-id metadata")
	}
	id, err := uuid.Parse(vals[0])
	if err != nil {
		return uuid.Nil, status.Error(codes.Unauthenticated, "invalid x-user-id metadata")
	}
	return id, nil
}

// toGRPCError maps domain errors to gRPC status errors.
func toGRPCError(err error) error {
	if errors.Is(err, application.ErrNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	if application.IsValidation(err) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	slog.Error("tracker rpc failed", "err", err)
	return status.Error(codes.Internal, "internal server error")
}

func stringField(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	return s.GetFields()[key].GetStringValue()
}

func newStruct(m map[string]any) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return st, nil
}

// appToMap converts an application to Struct-compatible values. Optional
// fields (FollowUpDate, Notes) become null when absent.
func appToMap(a *application.JobApplication) map[string]any {
	m := map[string]any{
		"id":               a.ID.String(),
		"user_id":          a.UserID.String(),
		"company_name":     a.CompanyName,
		"job_role":         a.JobRole,
		"job_type":         string(a.JobType),
		"status":           string(a.Status),
		"application_date": a.ApplicationDate.String(),
		"follow_up_date":   nil,
		"notes":            nil,
		"created_at":       formatTimestamp(a.CreatedAt),
		"updated_at":       formatTimestamp(a.UpdatedAt),
	}
	if a.FollowUpDate != nil {
		m["follow_up_date"] = a.FollowUpDate.String()
	}
	if a.Notes != nil {
		m["notes"] = *a.Notes
	}
	return m
}

func statsToMap(s insights.Stats) map[string]any {
	byStatus := make(map[string]any, len(s.CountsByStatus))
	for k, v := range s.CountsByStatus {
		byStatus[string(k)] = v
	}
	byType := make(map[string]any, len(s.CountsByType))
	for k, v := range s.CountsByType {
		byType[string(k)] = v
	}
	trend := make([]any, 0, len(s.WeeklyTrend))
	for _, p := range s.WeeklyTrend {
		trend = append(trend, map[string]any{
			"date":  p.Date.String(),
			"label": p.Label,
			"count": p.Count,
		})
	}
	return map[string]any{
		"total":              s.Total,
		"counts_by_status":   byStatus,
		"counts_by_type":     byType,
		"success_rate_pct":   s.SuccessRatePct,
		"interview_rate_pct": s.InterviewRatePct,
		"active_count":       s.ActiveCount,
		"weekly_trend":       trend,
	}
}

// formatTimestamp renders t as RFC 3339 in UTC, the protobuf Timestamp JSON form.
func formatTimestamp(t time.Time) string {
	return timestamppb.New(t).AsTime().Format(time.RFC3339Nano)
}
