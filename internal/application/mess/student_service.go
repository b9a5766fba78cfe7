package mess

import (
	"context"

	"github.com/google/uuid"
	"github.com/messhall/backend/internal/domain/mess"
	"github.com/messhall/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StudentService manages the student roster. Only staff call these
// operations; students interact through the attendance and menu
// services.
type StudentService struct {
	studentRepo    mess.StudentRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewStudentService creates a new student service
func NewStudentService(
	studentRepo mess.StudentRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *StudentService {
	return &StudentService{
		studentRepo:    studentRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// CreateStudent creates a student, optionally with login credentials
func (s *StudentService) CreateStudent(ctx context.Context, input CreateStudentInput) (*StudentInfo, error) {
	if (input.Username == "") != (input.Password == "") {
		return nil, shared.NewDomainError("CREDENTIALS_INCOMPLETE", "Username and password must be provided together")
	}

	student, err := mess.NewStudent(input.Name, input.Room, input.Allergies, input.FoodType)
	if err != nil {
		return nil, err
	}

	if input.Username != "" {
		if err := s.ensureUsernameFree(ctx, input.Username, uuid.Nil); err != nil {
			return nil, err
		}
		if err := student.SetCredentials(input.Username, input.Password); err != nil {
			return nil, err
		}
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		s.logger.Error("Failed to create student", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create student")
	}

	s.publishEvents(ctx, student)

	s.logger.Info("Student created",
		zap.String("student_id", student.ID.String()),
		zap.String("name", student.Name))

	info := studentToInfo(student)
	return &info, nil
}

// UpdateStudent updates a student's roster fields and, when both
// username and password are supplied, replaces the login credentials
func (s *StudentService) UpdateStudent(ctx context.Context, input UpdateStudentInput) (*StudentInfo, error) {
	student, err := s.studentRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if err := student.UpdateProfile(input.Name, input.Room, input.Allergies, input.FoodType); err != nil {
		return nil, err
	}

	if input.Username != "" || input.Password != "" {
		if input.Username == "" || input.Password == "" {
			return nil, shared.NewDomainError("CREDENTIALS_INCOMPLETE", "Username and password must be provided together")
		}
		if err := s.ensureUsernameFree(ctx, input.Username, student.ID); err != nil {
			return nil, err
		}
		if err := student.SetCredentials(input.Username, input.Password); err != nil {
			return nil, err
		}
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		s.logger.Error("Failed to update student",
			zap.String("student_id", input.ID.String()),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Student updated", zap.String("student_id", student.ID.String()))

	info := studentToInfo(student)
	return &info, nil
}

// DeleteStudent removes a student. An id that is not on the roster is
// reported as a notice, not an error. The student's attendance records
// and allergy reports go with them; filed reports lose their author but
// the aggregate counters are recomputed from what remains.
func (s *StudentService) DeleteStudent(ctx context.Context, id uuid.UUID) (*DeleteStudentResult, error) {
	student, err := s.studentRepo.FindByID(ctx, id)
	if err == shared.ErrNotFound {
		s.logger.Info("Delete requested for unknown student", zap.String("student_id", id.String()))
		return &DeleteStudentResult{Notice: "Student not found"}, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.studentRepo.Delete(ctx, id); err != nil {
		if err == shared.ErrNotFound {
			return &DeleteStudentResult{Notice: "Student not found"}, nil
		}
		s.logger.Error("Failed to delete student",
			zap.String("student_id", id.String()),
			zap.Error(err))
		return nil, err
	}

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, mess.NewStudentDeletedEvent(student)); err != nil {
			s.logger.Warn("Failed to publish student deleted event", zap.Error(err))
		}
	}

	s.logger.Info("Student deleted",
		zap.String("student_id", id.String()),
		zap.String("name", student.Name))

	return &DeleteStudentResult{Deleted: true}, nil
}

// GetStudent returns one student by ID
func (s *StudentService) GetStudent(ctx context.Context, id uuid.UUID) (*StudentInfo, error) {
	student, err := s.studentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	info := studentToInfo(student)
	return &info, nil
}

// ListStudents returns the full roster in insertion order
func (s *StudentService) ListStudents(ctx context.Context) ([]StudentInfo, error) {
	students, err := s.studentRepo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list students", zap.Error(err))
		return nil, err
	}
	return studentsToInfo(students), nil
}

// ensureUsernameFree rejects a username already held by a different
// student. The DB's unique index is the hard guarantee; this check just
// yields a friendlier error for the common case.
func (s *StudentService) ensureUsernameFree(ctx context.Context, username string, selfID uuid.UUID) error {
	existing, err := s.studentRepo.FindByUsername(ctx, username)
	if err == shared.ErrNotFound {
		return nil
	}
	if err != nil {
		s.logger.Error("Failed to check student username", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to verify username availability")
	}
	if existing.ID == selfID {
		return nil
	}
	return shared.NewDomainError("USERNAME_TAKEN", "Username is already taken by another student")
}

func (s *StudentService) publishEvents(ctx context.Context, student *mess.Student) {
	if s.eventPublisher == nil {
		return
	}
	events := student.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish student events", zap.Error(err))
	}
	student.ClearDomainEvents()
}
