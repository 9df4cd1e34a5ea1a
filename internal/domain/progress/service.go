package progress

import (
	"context"

	"github.com/cmlabs-hris/fashion-school-backend-go/internal/domain/enrollment"
)

type ProgressService interface {
	StudentProgress(ctx context.Context, enrollmentID string) (*StudentProgress, error)
	MyProgress(ctx context.Context, studentID string) ([]StudentProgress, error)
	TeacherStudents(ctx context.Context, teacherID string) ([]TeacherStudent, error)

	ListEnrollments(ctx context.Context, filter enrollment.EnrollmentFilter) ([]enrollment.Enrollment, error)
	UpdateClassEnrollment(ctx context.Context, req enrollment.UpdateClassEnrollmentRequest) (*enrollment.ClassEnrollment, error)
	UpdateEnrollmentStatus(ctx context.Context, req enrollment.UpdateEnrollmentStatusRequest) (*enrollment.Enrollment, error)
}
