package toolkit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aadishiv23/petals"
)

// Course is one Canvas enrollment.
type Course struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Code  string `json:"courseCode,omitempty"`
	State string `json:"workflowState,omitempty"` // "active" or "completed"
}

// Grade is the current standing in one course.
type Grade struct {
	CourseName string  `json:"courseName"`
	Score      float64 `json:"score,omitempty"`
	Grade      string  `json:"grade,omitempty"`
}

// CanvasSource abstracts where course data comes from, so tests and offline
// hosts can substitute fixtures for the live API.
type CanvasSource interface {
	Courses(ctx context.Context, includeCompleted bool) ([]Course, error)
	Grades(ctx context.Context, courseName string) ([]Grade, error)
}

// HTTPCanvas reads courses and grades from a Canvas LMS REST API
// (GET /api/v1/courses with total_scores included).
type HTTPCanvas struct {
	baseURL string
	token   string
	hc      *http.Client
	log     zerolog.Logger
}

// NewHTTPCanvas creates a client for the Canvas instance at baseURL,
// authenticating with the given access token. A nil client defaults to a
// 15-second timeout.
func NewHTTPCanvas(baseURL, token string, hc *http.Client, log zerolog.Logger) *HTTPCanvas {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPCanvas{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		hc:      hc,
		log:     log,
	}
}

// canvasCourse is the wire shape Canvas returns for /api/v1/courses.
type canvasCourse struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	CourseCode    string `json:"course_code"`
	WorkflowState string `json:"workflow_state"`
	Enrollments   []struct {
		ComputedCurrentScore float64 `json:"computed_current_score"`
		ComputedCurrentGrade string  `json:"computed_current_grade"`
	} `json:"enrollments"`
}

func (c *HTTPCanvas) fetchCourses(ctx context.Context, includeCompleted bool) ([]canvasCourse, error) {
	q := url.Values{}
	q.Set("include[]", "total_scores")
	q.Set("per_page", "100")
	if !includeCompleted {
		q.Set("enrollment_state", "active")
	}
	endpoint := c.baseURL + "/api/v1/courses?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("canvas request: %w", err)
	}
	defer resp.Body.Close()
	c.log.Debug().Int("status", resp.StatusCode).Dur("duration", time.Since(start)).Msg("canvas courses fetched")
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("canvas api: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var courses []canvasCourse
	if err := json.NewDecoder(resp.Body).Decode(&courses); err != nil {
		return nil, fmt.Errorf("canvas response: %w", err)
	}
	return courses, nil
}

// Courses implements CanvasSource.
func (c *HTTPCanvas) Courses(ctx context.Context, includeCompleted bool) ([]Course, error) {
	raw, err := c.fetchCourses(ctx, includeCompleted)
	if err != nil {
		return nil, err
	}
	out := make([]Course, 0, len(raw))
	for _, r := range raw {
		out = append(out, Course{ID: r.ID, Name: r.Name, Code: r.CourseCode, State: r.WorkflowState})
	}
	return out, nil
}

// Grades implements CanvasSource. An empty courseName reports every course
// with a computed score.
func (c *HTTPCanvas) Grades(ctx context.Context, courseName string) ([]Grade, error) {
	raw, err := c.fetchCourses(ctx, true)
	if err != nil {
		return nil, err
	}
	var out []Grade
	for _, r := range raw {
		if courseName != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(courseName)) {
			continue
		}
		for _, e := range r.Enrollments {
			out = append(out, Grade{CourseName: r.Name, Score: e.ComputedCurrentScore, Grade: e.ComputedCurrentGrade})
			break
		}
	}
	return out, nil
}

// StaticCanvas is a fixture CanvasSource for tests and offline use.
type StaticCanvas struct {
	CourseList []Course
	GradeList  []Grade
}

// Courses implements CanvasSource.
func (s *StaticCanvas) Courses(_ context.Context, includeCompleted bool) ([]Course, error) {
	var out []Course
	for _, c := range s.CourseList {
		if !includeCompleted && strings.EqualFold(c.State, "completed") {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// Grades implements CanvasSource.
func (s *StaticCanvas) Grades(_ context.Context, courseName string) ([]Grade, error) {
	var out []Grade
	for _, g := range s.GradeList {
		if courseName != "" && !strings.Contains(strings.ToLower(g.CourseName), strings.ToLower(courseName)) {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

type canvasCoursesTool struct {
	src CanvasSource
}

func (t *canvasCoursesTool) Descriptor() petals.Descriptor {
	return petals.Descriptor{
		ID:              petals.ToolCanvasCourses,
		DisplayName:     "Fetch Canvas Courses",
		Description:     "List the user's Canvas courses.",
		Parameters:      petals.ParametersFor[petals.CanvasCoursesCall](),
		TriggerKeywords: []string{"canvas", "courses", "classes", "enrolled", "semester"},
		Domain:          petals.DomainAcademics,
		Permission:      petals.PermissionBasic,
	}
}

func (t *canvasCoursesTool) Execute(ctx context.Context, call petals.TypedCall) (petals.Result, error) {
	args, ok := call.(*petals.CanvasCoursesCall)
	if !ok {
		return petals.Result{}, &petals.DecodeError{Tool: petals.ToolCanvasCourses, Reason: "unexpected call variant"}
	}
	courses, err := t.src.Courses(ctx, args.IncludeCompleted)
	if err != nil {
		return petals.Result{}, err
	}
	return petals.Success(courses), nil
}

type canvasGradesTool struct {
	src CanvasSource
}

func (t *canvasGradesTool) Descriptor() petals.Descriptor {
	return petals.Descriptor{
		ID:              petals.ToolCanvasGrades,
		DisplayName:     "Fetch Canvas Grades",
		Description:     "Report the user's current grades, for one course or all of them.",
		Parameters:      petals.ParametersFor[petals.CanvasGradesCall](),
		TriggerKeywords: []string{"canvas", "grades", "grade", "score", "gpa"},
		Domain:          petals.DomainAcademics,
		Permission:      petals.PermissionStandard,
	}
}

func (t *canvasGradesTool) Execute(ctx context.Context, call petals.TypedCall) (petals.Result, error) {
	args, ok := call.(*petals.CanvasGradesCall)
	if !ok {
		return petals.Result{}, &petals.DecodeError{Tool: petals.ToolCanvasGrades, Reason: "unexpected call variant"}
	}
	grades, err := t.src.Grades(ctx, args.CourseName)
	if err != nil {
		return petals.Result{}, err
	}
	if len(grades) == 0 && args.CourseName != "" {
		// The named course doesn't exist: ask rather than report emptiness.
		courses, err := t.src.Courses(ctx, false)
		if err != nil || len(courses) == 0 {
			return petals.NeedMoreInfo(fmt.Sprintf("I couldn't find a course called %q.", args.CourseName)), nil
		}
		actions := make([]petals.SuggestedAction, 0, len(courses))
		for _, c := range courses {
			actions = append(actions, petals.SuggestedAction{
				Label:  c.Name,
				Prompt: "What's my grade in " + c.Name,
			})
		}
		return petals.NeedMoreInfo(fmt.Sprintf("I couldn't find a course called %q. Did you mean one of these?", args.CourseName), actions...), nil
	}
	return petals.Success(grades), nil
}
