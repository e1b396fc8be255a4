package timesheetv1

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName は完全修飾サービス名です。
const ServiceName = "timesheet.v1.TimesheetService"

const (
	TimesheetService_ClockIn_FullMethodName              = "/" + ServiceName + "/ClockIn"
	TimesheetService_ClockOut_FullMethodName             = "/" + ServiceName + "/ClockOut"
	TimesheetService_GetClockStatus_FullMethodName       = "/" + ServiceName + "/GetClockStatus"
	TimesheetService_GetCurrentPayPeriod_FullMethodName  = "/" + ServiceName + "/GetCurrentPayPeriod"
	TimesheetService_ListTimesheetEntries_FullMethodName = "/" + ServiceName + "/ListTimesheetEntries"
	TimesheetService_SubmitTimesheet_FullMethodName      = "/" + ServiceName + "/SubmitTimesheet"
	TimesheetService_GetTimesheetStatus_FullMethodName   = "/" + ServiceName + "/GetTimesheetStatus"
	TimesheetService_ListWeekly_FullMethodName           = "/" + ServiceName + "/ListWeeklyTimesheetsAllEmployees"
	TimesheetService_Approve_FullMethodName              = "/" + ServiceName + "/ApproveWeeklyTimesheet"
	TimesheetService_Deny_FullMethodName                 = "/" + ServiceName + "/DenyWeeklyTimesheet"
	TimesheetService_FireEmployee_FullMethodName         = "/" + ServiceName + "/FireEmployee"
	TimesheetService_ReinstateEmployee_FullMethodName    = "/" + ServiceName + "/ReinstateEmployee"
	TimesheetService_RebuildTimesheet_FullMethodName     = "/" + ServiceName + "/RebuildTimesheet"
	TimesheetService_ClosePayPeriod_FullMethodName       = "/" + ServiceName + "/ClosePayPeriod"
	TimesheetService_MarkPayPeriodPaid_FullMethodName    = "/" + ServiceName + "/MarkPayPeriodPaid"
	TimesheetService_ListNotifications_FullMethodName    = "/" + ServiceName + "/ListNotifications"
)

// ManagerOnlyMethods は manager 権限を要求するメソッドの一覧です。
var ManagerOnlyMethods = []string{
	TimesheetService_ListWeekly_FullMethodName,
	TimesheetService_Approve_FullMethodName,
	TimesheetService_Deny_FullMethodName,
	TimesheetService_FireEmployee_FullMethodName,
	TimesheetService_ReinstateEmployee_FullMethodName,
	TimesheetService_RebuildTimesheet_FullMethodName,
	TimesheetService_ClosePayPeriod_FullMethodName,
	TimesheetService_MarkPayPeriodPaid_FullMethodName,
}

// TimesheetServiceServer は timesheet.v1.TimesheetService のサーバー実装が満たすインターフェースです。
type TimesheetServiceServer interface {
	ClockIn(context.Context, *ClockInRequest) (*ClockInResponse, error)
	ClockOut(context.Context, *ClockOutRequest) (*ClockOutResponse, error)
	GetClockStatus(context.Context, *GetClockStatusRequest) (*GetClockStatusResponse, error)
	GetCurrentPayPeriod(context.Context, *GetCurrentPayPeriodRequest) (*PayPeriodResponse, error)
	ListTimesheetEntries(context.Context, *ListTimesheetEntriesRequest) (*ListTimesheetEntriesResponse, error)
	SubmitTimesheet(context.Context, *SubmitTimesheetRequest) (*SubmitTimesheetResponse, error)
	GetTimesheetStatus(context.Context, *GetTimesheetStatusRequest) (*GetTimesheetStatusResponse, error)
	ListWeeklyTimesheetsAllEmployees(context.Context, *ListWeeklyTimesheetsRequest) (*ListWeeklyTimesheetsResponse, error)
	ApproveWeeklyTimesheet(context.Context, *ReviewWeeklyTimesheetRequest) (*ReviewWeeklyTimesheetResponse, error)
	DenyWeeklyTimesheet(context.Context, *ReviewWeeklyTimesheetRequest) (*ReviewWeeklyTimesheetResponse, error)
	FireEmployee(context.Context, *EmployeeLifecycleRequest) (*EmployeeResponse, error)
	ReinstateEmployee(context.Context, *EmployeeLifecycleRequest) (*EmployeeResponse, error)
	RebuildTimesheet(context.Context, *RebuildTimesheetRequest) (*RebuildTimesheetResponse, error)
	ClosePayPeriod(context.Context, *ClosePayPeriodRequest) (*PayPeriodResponse, error)
	MarkPayPeriodPaid(context.Context, *MarkPayPeriodPaidRequest) (*PayPeriodResponse, error)
	ListNotifications(context.Context, *ListNotificationsRequest) (*ListNotificationsResponse, error)
}

// RegisterTimesheetServiceServer はサービスを gRPC サーバーに登録します。
func RegisterTimesheetServiceServer(s grpc.ServiceRegistrar, srv TimesheetServiceServer) {
	s.RegisterService(&TimesheetService_ServiceDesc, srv)
}

func unary[Req, Resp any](fullMethod string, call func(TimesheetServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TimesheetServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TimesheetServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// TimesheetService_ServiceDesc は timesheet.v1.TimesheetService の grpc.ServiceDesc です。
var TimesheetService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TimesheetServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ClockIn", Handler: unary(TimesheetService_ClockIn_FullMethodName, TimesheetServiceServer.ClockIn)},
		{MethodName: "ClockOut", Handler: unary(TimesheetService_ClockOut_FullMethodName, TimesheetServiceServer.ClockOut)},
		{MethodName: "GetClockStatus", Handler: unary(TimesheetService_GetClockStatus_FullMethodName, TimesheetServiceServer.GetClockStatus)},
		{MethodName: "GetCurrentPayPeriod", Handler: unary(TimesheetService_GetCurrentPayPeriod_FullMethodName, TimesheetServiceServer.GetCurrentPayPeriod)},
		{MethodName: "ListTimesheetEntries", Handler: unary(TimesheetService_ListTimesheetEntries_FullMethodName, TimesheetServiceServer.ListTimesheetEntries)},
		{MethodName: "SubmitTimesheet", Handler: unary(TimesheetService_SubmitTimesheet_FullMethodName, TimesheetServiceServer.SubmitTimesheet)},
		{MethodName: "GetTimesheetStatus", Handler: unary(TimesheetService_GetTimesheetStatus_FullMethodName, TimesheetServiceServer.GetTimesheetStatus)},
		{MethodName: "ListWeeklyTimesheetsAllEmployees", Handler: unary(TimesheetService_ListWeekly_FullMethodName, TimesheetServiceServer.ListWeeklyTimesheetsAllEmployees)},
		{MethodName: "ApproveWeeklyTimesheet", Handler: unary(TimesheetService_Approve_FullMethodName, TimesheetServiceServer.ApproveWeeklyTimesheet)},
		{MethodName: "DenyWeeklyTimesheet", Handler: unary(TimesheetService_Deny_FullMethodName, TimesheetServiceServer.DenyWeeklyTimesheet)},
		{MethodName: "FireEmployee", Handler: unary(TimesheetService_FireEmployee_FullMethodName, TimesheetServiceServer.FireEmployee)},
		{MethodName: "ReinstateEmployee", Handler: unary(TimesheetService_ReinstateEmployee_FullMethodName, TimesheetServiceServer.ReinstateEmployee)},
		{MethodName: "RebuildTimesheet", Handler: unary(TimesheetService_RebuildTimesheet_FullMethodName, TimesheetServiceServer.RebuildTimesheet)},
		{MethodName: "ClosePayPeriod", Handler: unary(TimesheetService_ClosePayPeriod_FullMethodName, TimesheetServiceServer.ClosePayPeriod)},
		{MethodName: "MarkPayPeriodPaid", Handler: unary(TimesheetService_MarkPayPeriodPaid_FullMethodName, TimesheetServiceServer.MarkPayPeriodPaid)},
		{MethodName: "ListNotifications", Handler: unary(TimesheetService_ListNotifications_FullMethodName, TimesheetServiceServer.ListNotifications)},
	},
	Streams: []grpc.StreamDesc{},
}
