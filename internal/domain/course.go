package domain

// SubCourse is a nested course reference as some catalog payloads deliver it.
type SubCourse struct {
	CourseNumber string `json:"courseNumber"`
}

type Lecturer struct {
	DisplayName string `json:"displayName"`
}

type CourseLanguage struct {
	Code string `json:"code"`
}

// RawCourse is the normalized superset of the course shapes the upstream
// APIs deliver. Each source fills a different subset of the identifier
// fields; ResolveCourseID collapses them into one canonical ID.
type RawCourse struct {
	ID                string         `json:"id"`
	AltID             string         `json:"_id"`
	Number            string         `json:"number"`
	CourseNumber      string         `json:"courseNumber"`
	EventCourseNumber string         `json:"eventCourseNumber"`
	Courses           []SubCourse    `json:"courses"`
	Title             string         `json:"title"`
	Name              string         `json:"name"`
	ShortName         string         `json:"shortName"`
	Classification    string         `json:"classification"`
	BigType           string         `json:"bigType"`
	Credits           Numeric        `json:"credits"` // hundredths of an ECTS
	Lecturers         []Lecturer     `json:"lecturers"`
	CourseLanguage    CourseLanguage `json:"courseLanguage"`
	AvgRating         *float64       `json:"avgRating"`
	CalendarEntry     []CalendarSlot `json:"calendarEntry"`
}

// CalendarSlot is one scheduled meeting of a course.
type CalendarSlot struct {
	Start    string `json:"eventDate"`
	End      string `json:"eventEnd"`
	Location string `json:"location"`
}

// ECTS returns the course's credits as decimal ECTS.
func (c RawCourse) ECTS() float64 {
	return c.Credits.Value / 100
}

// ResolveCourseID extracts the canonical course identifier using a fixed
// priority cascade over the known source shapes. Returns "" when no
// candidate field carries a value.
func ResolveCourseID(c *RawCourse) string {
	if c == nil {
		return ""
	}
	if len(c.Courses) > 0 && c.Courses[0].CourseNumber != "" {
		return c.Courses[0].CourseNumber
	}
	return CoalesceStr(c.EventCourseNumber, c.CourseNumber, c.ID, c.Number, c.AltID)
}

// RatingFor looks up the course's average rating in a ratings map assembled
// from the rating source. Presence in the map decides, not truthiness, so a
// stored rating of 0 is still found. The second return is false when no key
// matches.
func RatingFor(c *RawCourse, ratings map[string]float64) (float64, bool) {
	if c == nil || len(ratings) == 0 {
		return 0, false
	}
	keys := []string{c.ID, c.CourseNumber}
	if len(c.Courses) > 0 {
		keys = append(keys, c.Courses[0].CourseNumber)
	}
	keys = append(keys, c.ShortName, c.AltID, c.Number, c.Title, c.Name)
	for _, k := range keys {
		if k == "" {
			continue
		}
		if r, ok := ratings[k]; ok {
			return r, true
		}
	}
	return 0, false
}
