package interceptor

import (
	"context"
	"testing"

	"github.com/ogurasousui/timesheet-engine/internal/core/apperr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	actorID = "7f3f4cc5-1d0f-4b59-9f6b-0d6c1c1a2b01"
	otherID = "a7c2d8a1-52f0-4d0c-8a39-3f0f6de1b902"

	managedMethod = "/timesheet.v1.TimesheetService/ApproveWeeklyTimesheet"
	selfMethod    = "/timesheet.v1.TimesheetService/ClockIn"
)

type scopedRequest struct {
	EmployeeID string
}

func (r *scopedRequest) GetEmployeeID() string { return r.EmployeeID }

func invoke(t *testing.T, md metadata.MD, method string, req any) (apperr.Actor, bool, error) {
	t.Helper()

	var (
		captured apperr.Actor
		called   bool
	)
	handler := func(ctx context.Context, _ any) (any, error) {
		called = true
		actor, ok := ActorFromContext(ctx)
		if !ok {
			t.Fatal("expected actor in context")
		}
		captured = actor
		return "ok", nil
	}

	ctx := metadata.NewIncomingContext(context.Background(), md)
	_, err := Identity([]string{managedMethod})(ctx, req, &grpc.UnaryServerInfo{FullMethod: method}, handler)
	return captured, called, err
}

func TestIdentity_ResolvesActor(t *testing.T) {
	t.Parallel()

	md := metadata.Pairs(MetadataEmployeeID, "  7F3F4CC5-1D0F-4B59-9F6B-0D6C1C1A2B01 ", MetadataRole, "Manager")
	actor, called, err := invoke(t, md, managedMethod, &scopedRequest{EmployeeID: otherID})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("expected handler to be called")
	}
	if actor.EmployeeID != actorID || !actor.IsManager {
		t.Fatalf("unexpected actor %+v", actor)
	}
}

func TestIdentity_MissingEmployeeID(t *testing.T) {
	t.Parallel()

	_, called, err := invoke(t, metadata.MD{}, selfMethod, &scopedRequest{})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
	if called {
		t.Fatal("handler must not be called")
	}
}

func TestIdentity_MalformedEmployeeID(t *testing.T) {
	t.Parallel()

	_, _, err := invoke(t, metadata.Pairs(MetadataEmployeeID, "not-a-uuid"), selfMethod, &scopedRequest{})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", err)
	}
}

func TestIdentity_ManagerOnlyMethodRejectsEmployee(t *testing.T) {
	t.Parallel()

	_, called, err := invoke(t, metadata.Pairs(MetadataEmployeeID, actorID), managedMethod, &scopedRequest{EmployeeID: actorID})
	if status.Code(err) != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied, got %v", err)
	}
	if called {
		t.Fatal("handler must not be called")
	}
}

func TestIdentity_EmployeeScope(t *testing.T) {
	t.Parallel()

	md := metadata.Pairs(MetadataEmployeeID, actorID)

	if _, _, err := invoke(t, md, selfMethod, &scopedRequest{}); err != nil {
		t.Fatalf("empty target should default to the caller, got %v", err)
	}
	if _, _, err := invoke(t, md, selfMethod, &scopedRequest{EmployeeID: actorID}); err != nil {
		t.Fatalf("own id should be allowed, got %v", err)
	}
	if _, _, err := invoke(t, md, selfMethod, &scopedRequest{EmployeeID: otherID}); status.Code(err) != codes.PermissionDenied {
		t.Fatalf("expected PermissionDenied for another employee, got %v", err)
	}
	if _, _, err := invoke(t, md, selfMethod, &scopedRequest{EmployeeID: "bogus"}); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected InvalidArgument for malformed target, got %v", err)
	}
}

func TestIdentity_ManagerMayActForOthers(t *testing.T) {
	t.Parallel()

	md := metadata.Pairs(MetadataEmployeeID, actorID, MetadataRole, RoleManager)
	if _, _, err := invoke(t, md, selfMethod, &scopedRequest{EmployeeID: otherID}); err != nil {
		t.Fatalf("manager should act for others, got %v", err)
	}
}
