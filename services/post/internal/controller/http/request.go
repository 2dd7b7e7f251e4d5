package http

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Validation and error messages returned to clients.
const (
	MsgAuthorNotEmpty   = "작성자 명은 최소 1글자 이상이어야 합니다."
	MsgPassword         = "비밀번호는 6~50글자이며 숫자를 1개 이상 포함해야 합니다."
	MsgPasswordRequired = "비밀번호를 입력해야 합니다."
	MsgTitleMinLength   = "제목은 최소 2글자 이상이어야 합니다."
	MsgTitleMaxLength   = "제목은 최대 20 글자를 초과할 수 없습니다."
	MsgContentMinLength = "글 내용은 최소 2글자 이상이어야 합니다."
	MsgContentMaxLength = "글 내용은 최대 200 글자를 초과할 수 없습니다."
	MsgInvalidID        = "잘못된 id 값입니다."
	MsgInvalidBody      = "요청 본문을 해석할 수 없습니다."
	MsgPostNotFound     = "게시글 정보를 찾을 수 없습니다."
	MsgPasswordMismatch = "비밀번호가 일치하지 않습니다."
)

const (
	passwordMinLength = 6
	passwordMaxLength = 50
	titleMinLength    = 2
	titleMaxLength    = 20
	contentMinLength  = 2
	contentMaxLength  = 200
)

type AddPostRequest struct {
	Author   string `json:"author" example:"루비"`
	Password string `json:"password" example:"1234qwer"`
	Title    string `json:"title" example:"게시글 제목"`
	Content  string `json:"content" example:"게시글 본문입니다"`
}

// Validate checks every rule and returns one message per violation.
func (r *AddPostRequest) Validate() []string {
	var violations []string
	violations = appendAuthor(violations, r.Author)
	if !validPassword(r.Password) {
		violations = append(violations, MsgPassword)
	}
	violations = appendTitle(violations, r.Title)
	violations = appendContent(violations, r.Content)
	return violations
}

// UpdatePostRequest carries the new field values. The password only proves
// ownership and is never changed, so its format is not re-checked.
type UpdatePostRequest struct {
	Author   string `json:"author" example:"루비"`
	Password string `json:"password" example:"1234qwer"`
	Title    string `json:"title" example:"수정된 제목"`
	Content  string `json:"content" example:"수정된 본문입니다"`
}

func (r *UpdatePostRequest) Validate() []string {
	var violations []string
	violations = appendAuthor(violations, r.Author)
	if r.Password == "" {
		violations = append(violations, MsgPasswordRequired)
	}
	violations = appendTitle(violations, r.Title)
	violations = appendContent(violations, r.Content)
	return violations
}

type DeletePostRequest struct {
	Password string `json:"password" example:"1234qwer"`
}

func (r *DeletePostRequest) Validate() []string {
	if r.Password == "" {
		return []string{MsgPasswordRequired}
	}
	return nil
}

func appendAuthor(violations []string, author string) []string {
	if author == "" {
		violations = append(violations, MsgAuthorNotEmpty)
	}
	return violations
}

func appendTitle(violations []string, title string) []string {
	return appendLength(violations, title, titleMinLength, titleMaxLength, MsgTitleMinLength, MsgTitleMaxLength)
}

func appendContent(violations []string, content string) []string {
	return appendLength(violations, content, contentMinLength, contentMaxLength, MsgContentMinLength, MsgContentMaxLength)
}

func appendLength(violations []string, value string, minLen, maxLen int, minMsg, maxMsg string) []string {
	n := utf8.RuneCountInString(value)
	if n < minLen {
		violations = append(violations, minMsg)
	}
	if n > maxLen {
		violations = append(violations, maxMsg)
	}
	return violations
}

func validPassword(password string) bool {
	n := utf8.RuneCountInString(password)
	return n >= passwordMinLength && n <= passwordMaxLength && strings.ContainsAny(password, "0123456789")
}

// parseID accepts a non-negative integer path id.
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// parseCursor accepts an absent or positive integer beforeLastId.
func parseCursor(raw string) (*uint, bool) {
	if raw == "" {
		return nil, true
	}
	id, ok := parseID(raw)
	if !ok || id == 0 {
		return nil, false
	}
	return &id, true
}
