package interceptor

import (
	"context"
	"strings"

	"github.com/ogurasousui/timesheet-engine/internal/core/apperr"
	"github.com/ogurasousui/timesheet-engine/internal/core/employee"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// 呼び出し元を表す metadata キーです。認証は上流のゲートウェイが行います。
const (
	MetadataEmployeeID = "x-employee-id"
	MetadataRole       = "x-role"
	RoleManager        = "manager"
)

type actorContextKey struct{}

// ContextWithActor は呼び出し元をコンテキストに格納します。
func ContextWithActor(ctx context.Context, actor apperr.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext はコンテキストに格納された呼び出し元を取り出します。
func ActorFromContext(ctx context.Context) (apperr.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(apperr.Actor)
	return actor, ok
}

type employeeScoped interface {
	GetEmployeeID() string
}

// Identity は metadata から呼び出し元を解決する UnaryServerInterceptor を返します。
// manager 専用メソッドの権限確認と、他の社員を対象とするリクエストの拒否もここで行います。
func Identity(managerOnly []string) grpc.UnaryServerInterceptor {
	restricted := make(map[string]struct{}, len(managerOnly))
	for _, method := range managerOnly {
		restricted[method] = struct{}{}
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		actor, err := actorFromMetadata(md)
		if err != nil {
			return nil, err
		}

		if _, ok := restricted[info.FullMethod]; ok && !actor.IsManager {
			return nil, status.Error(codes.PermissionDenied, "manager role required")
		}

		if scoped, ok := req.(employeeScoped); ok && !actor.IsManager {
			if target := strings.TrimSpace(scoped.GetEmployeeID()); target != "" {
				normalized, err := employee.NormalizeID(target)
				if err != nil {
					return nil, status.Error(codes.InvalidArgument, err.Error())
				}
				if normalized != actor.EmployeeID {
					return nil, status.Error(codes.PermissionDenied, "cannot act on behalf of another employee")
				}
			}
		}

		return handler(ContextWithActor(ctx, actor), req)
	}
}

func actorFromMetadata(md metadata.MD) (apperr.Actor, error) {
	ids := md.Get(MetadataEmployeeID)
	if len(ids) == 0 || strings.TrimSpace(ids[0]) == "" {
		return apperr.Actor{}, status.Error(codes.Unauthenticated, MetadataEmployeeID+" metadata is required")
	}
	id, err := employee.NormalizeID(ids[0])
	if err != nil {
		return apperr.Actor{}, status.Error(codes.Unauthenticated, MetadataEmployeeID+" must be a uuid")
	}

	isManager := false
	for _, role := range md.Get(MetadataRole) {
		if strings.EqualFold(strings.TrimSpace(role), RoleManager) {
			isManager = true
			break
		}
	}

	return apperr.Actor{EmployeeID: id, IsManager: isManager}, nil
}
