package model

type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleStudent Role = "Student"
	RoleTeacher Role = "Teacher"
	RoleAlumni  Role = "Alumni"
	RoleGuest   Role = "Guest"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStudent, RoleTeacher, RoleAlumni, RoleGuest:
		return true
	}
	return false
}

type UserStatus string

const (
	StatusActive   UserStatus = "Active"
	StatusPending  UserStatus = "Pending Approval"
	StatusInactive UserStatus = "Inactive"
)

type User struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Role           Role       `json:"role"`
	Status         UserStatus `json:"status"`
	Batch          string     `json:"batch,omitempty"`
	Section        string     `json:"section,omitempty"`
	Designation    string     `json:"designation,omitempty"`
	GraduationYear string     `json:"graduationYear,omitempty"`
	Avatar         string     `json:"avatar,omitempty"`
}

type Book struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	ISBN      string `json:"isbn"`
	Copies    int    `json:"copies"`
	Available int    `json:"available"`
	Category  string `json:"category"`
}

type BorrowStatus string

const (
	BorrowRequested BorrowStatus = "Requested"
	BorrowIssued    BorrowStatus = "Issued"
	BorrowReturned  BorrowStatus = "Returned"
	BorrowLate      BorrowStatus = "Late"
)

// borrowTransitions lists the allowed targets for each state.
var borrowTransitions = map[BorrowStatus][]BorrowStatus{
	BorrowRequested: {BorrowIssued},
	BorrowIssued:    {BorrowReturned, BorrowLate},
	BorrowLate:      {BorrowReturned},
	BorrowReturned:  nil,
}

func (s BorrowStatus) Valid() bool {
	_, ok := borrowTransitions[s]
	return ok
}

func (s BorrowStatus) CanTransitionTo(next BorrowStatus) bool {
	for _, allowed := range borrowTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DateLayout is the on-disk format of issue and return dates.
const DateLayout = "2006-01-02"

type BorrowRecord struct {
	ID         string       `json:"id"`
	BookID     string       `json:"bookId"`
	BookTitle  string       `json:"bookTitle"`
	UserID     string       `json:"userId"`
	UserName   string       `json:"userName"`
	IssueDate  string       `json:"issueDate"`
	ReturnDate string       `json:"returnDate,omitempty"`
	Status     BorrowStatus `json:"status"`
}

type NoticeCategory string

const (
	NoticeAcademic NoticeCategory = "Academic"
	NoticeExam     NoticeCategory = "Exam"
	NoticeEvent    NoticeCategory = "Event"
	NoticeGeneral  NoticeCategory = "General"
)

type Notice struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Content  string         `json:"content"`
	Date     string         `json:"date"`
	Category NoticeCategory `json:"category"`
	Author   string         `json:"author"`
}

type VerifiedEmail struct {
	Email string `json:"email" yaml:"email" validate:"required,email"`
	Role  Role   `json:"role" yaml:"role" validate:"required,oneof=Admin Student Teacher Alumni Guest"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterResponse struct {
	User     User   `json:"user"`
	Verified bool   `json:"verified"`
	Token    string `json:"token,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type BorrowCreateRequest struct {
	BookID string `json:"bookId" validate:"required"`
}

type BorrowStatusRequest struct {
	Status BorrowStatus `json:"status" validate:"required"`
}

type VerifiedImportRequest struct {
	Items []VerifiedEmail `json:"items" validate:"required,dive"`
}

type VerifiedImportResponse struct {
	Added int `json:"added"`
}

type Dashboard struct {
	Books      int `json:"books"`
	Notices    int `json:"notices"`
	MyRequests int `json:"myRequests"`
}
