package booking

import "context"

type AttendanceService interface {
	SubmitAttendance(ctx context.Context, teacherID string, req SubmitAttendanceRequest) (*SubmitResult, error)
	RequestIzin(ctx context.Context, studentID string, req RequestIzinRequest) (*Booking, error)
	RequestLateAttendance(ctx context.Context, teacherID string, req LateAttendanceRequest) (*AttendanceRequest, error)
	ApproveLateAttendance(ctx context.Context, adminID, requestID string) (*AttendanceRequest, error)
	RejectLateAttendance(ctx context.Context, adminID, requestID, reason string) (*AttendanceRequest, error)
	ListAttendanceRequests(ctx context.Context, filter AttendanceRequestFilter) ([]AttendanceRequest, error)

	ListBookings(ctx context.Context, filter BookingFilter) ([]Booking, error)
	CreateManualBooking(ctx context.Context, req CreateManualBookingRequest) (*Booking, error)
	CancelBooking(ctx context.Context, bookingID string) (*Booking, error)
	DeleteBooking(ctx context.Context, bookingID string) error
}
