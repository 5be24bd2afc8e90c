package models

import "time"

// SurveyMode tells the lifecycle manager which path a submission takes.
type SurveyMode string

const (
	SurveyModeCreate SurveyMode = "create"
	SurveyModeEdit   SurveyMode = "edit"
)

// MinSurveyCommentLength is the minimum comment length, counted in characters.
const MinSurveyCommentLength = 100

// Survey is a peer review of a professor for one course.
type Survey struct {
	ID                      string `db:"id" json:"id"`
	ProfessorID             string `db:"professor_id" json:"professorID"`
	CourseID                string `db:"course_id" json:"courseID"`
	CourseNumber            string `db:"course_number" json:"courseNumber"`
	AreaOfStudyAbbreviation string `db:"area_of_study_abbreviation" json:"areaOfStudyAbbreviation"`

	CourseWorkload     *int `db:"course_workload" json:"courseWorkload,omitempty"`
	Approachability    *int `db:"approachability" json:"approachability,omitempty"`
	LeadLecture        *int `db:"lead_lecture" json:"leadLecture,omitempty"`
	PromoteDiscussion  *int `db:"promote_discussion" json:"promoteDiscussion,omitempty"`
	OutsideHelpfulness *int `db:"outside_helpfulness" json:"outsideHelpfulness,omitempty"`

	WouldRecommendCourse *bool `db:"would_recommend_course" json:"wouldRecommendCourse,omitempty"`
	WouldTakeAnother     *bool `db:"would_take_another" json:"wouldTakeAnother,omitempty"`

	Comment string `db:"comment" json:"comment,omitempty"`
	AuthorRef
	Flagged     bool      `db:"flagged" json:"flagged"`
	CreatedTime time.Time `db:"created_at" json:"createdTime"`
	UpdatedTime time.Time `db:"updated_at" json:"updatedTime"`

	TotalAgree      int        `db:"-" json:"totalAgree"`
	TotalDisagree   int        `db:"-" json:"totalDisagree"`
	ClientAgreement *bool      `db:"-" json:"clientAgreement,omitempty"`
	Professor       *Professor `db:"-" json:"professor,omitempty"`
	Course          *Course    `db:"-" json:"course,omitempty"`
}

// Ratings returns the seven-point ratings keyed by their JSON field name.
func (s *Survey) Ratings() map[string]*int {
	return map[string]*int{
		"courseWorkload":     s.CourseWorkload,
		"approachability":    s.Approachability,
		"leadLecture":        s.LeadLecture,
		"promoteDiscussion":  s.PromoteDiscussion,
		"outsideHelpfulness": s.OutsideHelpfulness,
	}
}

// Agreement is one user's agree/disagree vote on a survey.
type Agreement struct {
	SurveyID    string    `db:"survey_id" json:"surveyID"`
	UserID      string    `db:"user_id" json:"userID"`
	Agrees      bool      `db:"agrees" json:"agrees"`
	CreatedTime time.Time `db:"created_at" json:"createdTime"`
}

// AgreementTally aggregates the votes on one survey.
type AgreementTally struct {
	SurveyID      string `db:"survey_id"`
	TotalAgree    int    `db:"total_agree"`
	TotalDisagree int    `db:"total_disagree"`
}

// SurveyPreload lists the relations a survey listing may embed.
type SurveyPreload struct {
	Professor bool
	Course    bool
}

// SurveyFilter selects surveys for listing.
type SurveyFilter struct {
	ProfessorID             string
	CourseID                string
	AreaOfStudyID           string
	Limit                   int
	Offset                  int
	Preload                 SurveyPreload
	PopulateAgreements      bool
	PopulateClientAgreement bool
}

// FlaggedFilter windows the moderation queue.
type FlaggedFilter struct {
	Limit   int
	Offset  int
	Preload SurveyPreload
}
