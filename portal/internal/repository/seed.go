package repository

import (
	"encoding/json"

	"github.com/Astemirdum/department-portal/portal/internal/model"
	"github.com/Astemirdum/department-portal/portal/internal/store"
)

var initialBooks = []model.Book{
	{ID: "1", Title: "Macroeconomics", Author: "N. Gregory Mankiw", ISBN: "978-1464182891", Copies: 5, Available: 3, Category: "Core Economics"},
	{ID: "2", Title: "Principles of Economics", Author: "Alfred Marshall", ISBN: "978-1607963288", Copies: 2, Available: 1, Category: "Foundation"},
	{ID: "3", Title: "Capital in the Twenty-First Century", Author: "Thomas Piketty", ISBN: "978-0674430006", Copies: 3, Available: 3, Category: "Development"},
}

var initialNotices = []model.Notice{
	{ID: "1", Title: "Semester Final Examination Schedule", Content: "The final examination for the 4th Year 2nd Semester will start from June 15th.", Date: "2024-05-20", Category: model.NoticeExam, Author: "Dept. Head"},
	{ID: "2", Title: "New Research Seminar", Content: `Dr. Rahim will present a seminar on "Digital Economy Trends" this Friday.`, Date: "2024-05-22", Category: model.NoticeAcademic, Author: "Coordinator"},
}

var seeds = map[string][]byte{
	store.BucketBooks:   mustMarshal(initialBooks),
	store.BucketNotices: mustMarshal(initialNotices),
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
