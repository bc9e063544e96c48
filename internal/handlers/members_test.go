package handlers_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portersclub/members-api/internal/handlers"
	"github.com/portersclub/members-api/internal/models"
)

func testMember(id int64, name string, age int) *models.Member {
	now := time.Now()
	return &models.Member{
		ID:            id,
		FullName:      name,
		Age:           &age,
		DOB:           now.AddDate(-age, 0, 0),
		Residence:     "Accra",
		PhoneNumber:   "+233200000000",
		MaritalStatus: models.MaritalSingle,
		JoiningDate:   now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func memberBody(age any) map[string]any {
	return map[string]any{
		"fullName":    "Ama Mensah",
		"age":         age,
		"dob":         "1999-04-12",
		"residence":   "Accra",
		"phoneNumber": "+233200000000",
		"joiningDate": "2024-01-05",
	}
}

func TestListMembers_Success(t *testing.T) {
	mockService := &handlers.MockMemberService{
		ListFunc: func(ctx context.Context, filter models.MemberFilter) ([]*models.Member, error) {
			return []*models.Member{testMember(1, "Ama Mensah", 25), testMember(2, "Kofi Owusu", 42)}, nil
		},
	}

	handler := handlers.NewMemberHandler(mockService)
	req := handlers.NewTestRequest(t, "GET", "/members", nil)

	w := httptest.NewRecorder()
	handler.ListMembers(w, req)

	var resp struct {
		Data []*handlers.MemberResponse `json:"data"`
	}
	handlers.AssertJSONResponse(t, w, 200, &resp)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "Ama Mensah", resp.Data[0].FullName)
}

func TestListMembers_FilterParsing(t *testing.T) {
	var captured models.MemberFilter
	mockService := &handlers.MockMemberService{
		ListFunc: func(ctx context.Context, filter models.MemberFilter) ([]*models.Member, error) {
			captured = filter
			return []*models.Member{}, nil
		},
	}

	handler := handlers.NewMemberHandler(mockService)
	req := handlers.NewTestRequest(t, "GET", "/members?search=ama&maritalStatus=single&minAge=20&maxAge=30&trash=true", nil)

	w := httptest.NewRecorder()
	handler.ListMembers(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "ama", captured.Search)
	assert.Equal(t, "single", captured.MaritalStatus)
	require.NotNil(t, captured.MinAge)
	assert.Equal(t, 20, *captured.MinAge)
	require.NotNil(t, captured.MaxAge)
	assert.Equal(t, 30, *captured.MaxAge)
	assert.True(t, captured.Trash)
}

func TestListMembers_BadAgeBound(t *testing.T) {
	handler := handlers.NewMemberHandler(&handlers.MockMemberService{})
	req := handlers.NewTestRequest(t, "GET", "/members?minAge=abc", nil)

	w := httptest.NewRecorder()
	handler.ListMembers(w, req)

	handlers.AssertErrorResponse(t, w, 400)
}

func TestGetMember_Success(t *testing.T) {
	mockService := &handlers.MockMemberService{
		GetByIDFunc: func(ctx context.Context, id int64) (*models.Member, error) {
			return testMember(id, "Ama Mensah", 25), nil
		},
	}

	handler := handlers.NewMemberHandler(mockService)
	req := handlers.WithURLParam(handlers.NewTestRequest(t, "GET", "/members/7", nil), "id", "7")

	w := httptest.NewRecorder()
	handler.GetMember(w, req)

	var resp struct {
		Data *handlers.MemberResponse `json:"data"`
	}
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, int64(7), resp.Data.ID)
	require.NotNil(t, resp.Data.Age)
	assert.Equal(t, 25, *resp.Data.Age)
}

func TestGetMember_NotFound(t *testing.T) {
	mockService := &handlers.MockMemberService{
		GetByIDFunc: func(ctx context.Context, id int64) (*models.Member, error) {
			return nil, models.ErrNotFound
		},
	}

	handler := handlers.NewMemberHandler(mockService)
	req := handlers.WithURLParam(handlers.NewTestRequest(t, "GET", "/members/404", nil), "id", "404")

	w := httptest.NewRecorder()
	handler.GetMember(w, req)

	handlers.AssertErrorResponse(t, w, 404)
}

// A non-numeric id is a lookup miss, not a validation failure.
func TestGetMember_NonNumericID(t *testing.T) {
	handler := handlers.NewMemberHandler(&handlers.MockMemberService{})
	req := handlers.WithURLParam(handlers.NewTestRequest(t, "GET", "/members/abc", nil), "id", "abc")

	w := httptest.NewRecorder()
	handler.GetMember(w, req)

	handlers.AssertErrorResponse(t, w, 404)
}

func TestCreateMember_Success(t *testing.T) {
	var created *models.Member
	mockService := &handlers.MockMemberService{
		CreateFunc: func(ctx context.Context, member *models.Member) (*models.Member, error) {
			member.ID = 11
			created = member
			return member, nil
		},
	}

	handler := handlers.NewMemberHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/members", memberBody(25))

	w := httptest.NewRecorder()
	handler.CreateMember(w, req)

	var resp struct {
		Data *handlers.MemberResponse `json:"data"`
	}
	handlers.AssertJSONResponse(t, w, 201, &resp)
	assert.Equal(t, int64(11), resp.Data.ID)
	require.NotNil(t, created.Age)
	assert.Equal(t, 25, *created.Age)
	assert.Equal(t, "1999-04-12", created.DOB.Format("2006-01-02"))
}

func TestCreateMember_AgeAsNumericString(t *testing.T) {
	var created *models.Member
	mockService := &handlers.MockMemberService{
		CreateFunc: func(ctx context.Context, member *models.Member) (*models.Member, error) {
			created = member
			return member, nil
		},
	}

	handler := handlers.NewMemberHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/members", memberBody("25"))

	w := httptest.NewRecorder()
	handler.CreateMember(w, req)

	assert.Equal(t, 201, w.Code)
	require.NotNil(t, created.Age)
	assert.Equal(t, 25, *created.Age)
}

func TestCreateMember_EmptyAgeMeansUnknown(t *testing.T) {
	var created *models.Member
	mockService := &handlers.MockMemberService{
		CreateFunc: func(ctx context.Context, member *models.Member) (*models.Member, error) {
			created = member
			return member, nil
		},
	}

	handler := handlers.NewMemberHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/members", memberBody(""))

	w := httptest.NewRecorder()
	handler.CreateMember(w, req)

	assert.Equal(t, 201, w.Code)
	assert.Nil(t, created.Age)
}

func TestCreateMember_BadAge(t *testing.T) {
	handler := handlers.NewMemberHandler(&handlers.MockMemberService{})
	req := handlers.NewTestRequest(t, "POST", "/members", memberBody("twenty"))

	w := httptest.NewRecorder()
	handler.CreateMember(w, req)

	handlers.AssertErrorResponse(t, w, 400)
}

func TestCreateMember_MissingRequiredField(t *testing.T) {
	body := memberBody(25)
	delete(body, "fullName")

	handler := handlers.NewMemberHandler(&handlers.MockMemberService{})
	req := handlers.NewTestRequest(t, "POST", "/members", body)

	w := httptest.NewRecorder()
	handler.CreateMember(w, req)

	handlers.AssertErrorResponse(t, w, 400)
}

func TestCreateMember_BadMaritalStatus(t *testing.T) {
	body := memberBody(25)
	body["maritalStatus"] = "divorced"

	handler := handlers.NewMemberHandler(&handlers.MockMemberService{})
	req := handlers.NewTestRequest(t, "POST", "/members", body)

	w := httptest.NewRecorder()
	handler.CreateMember(w, req)

	handlers.AssertErrorResponse(t, w, 400)
}

func TestCreateMember_MaritalStatusCaseInsensitive(t *testing.T) {
	body := memberBody(25)
	body["maritalStatus"] = "Single"

	mockService := &handlers.MockMemberService{
		CreateFunc: func(ctx context.Context, member *models.Member) (*models.Member, error) {
			return member, nil
		},
	}

	handler := handlers.NewMemberHandler(mockService)
	req := handlers.NewTestRequest(t, "POST", "/members", body)

	w := httptest.NewRecorder()
	handler.CreateMember(w, req)

	assert.Equal(t, 201, w.Code)
}

func TestCreateMember_BadDate(t *testing.T) {
	body := memberBody(25)
	body["dob"] = "12/04/1999"

	handler := handlers.NewMemberHandler(&handlers.MockMemberService{})
	req := handlers.NewTestRequest(t, "POST", "/members", body)

	w := httptest.NewRecorder()
	handler.CreateMember(w, req)

	handlers.AssertErrorResponse(t, w, 400)
}

func TestUpdateMember_NotFound(t *testing.T) {
	mockService := &handlers.MockMemberService{
		UpdateFunc: func(ctx context.Context, id int64, member *models.Member) (*models.Member, error) {
			return nil, models.ErrNotFound
		},
	}

	handler := handlers.NewMemberHandler(mockService)
	req := handlers.WithURLParam(handlers.NewTestRequest(t, "PUT", "/members/404", memberBody(25)), "id", "404")

	w := httptest.NewRecorder()
	handler.UpdateMember(w, req)

	handlers.AssertErrorResponse(t, w, 404)
}

func TestDeleteMember_Success(t *testing.T) {
	var deletedID int64
	mockService := &handlers.MockMemberService{
		SoftDeleteFunc: func(ctx context.Context, id int64) error {
			deletedID = id
			return nil
		},
	}

	handler := handlers.NewMemberHandler(mockService)
	req := handlers.WithURLParam(handlers.NewTestRequest(t, "DELETE", "/members/7", nil), "id", "7")

	w := httptest.NewRecorder()
	handler.DeleteMember(w, req)

	var resp handlers.MessageResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "Member moved to trash", resp.Message)
	assert.Equal(t, int64(7), deletedID)
}

func TestRestoreMember_NotFound(t *testing.T) {
	mockService := &handlers.MockMemberService{
		RestoreFunc: func(ctx context.Context, id int64) error {
			return models.ErrNotFound
		},
	}

	handler := handlers.NewMemberHandler(mockService)
	req := handlers.WithURLParam(handlers.NewTestRequest(t, "POST", "/members/404/restore", nil), "id", "404")

	w := httptest.NewRecorder()
	handler.RestoreMember(w, req)

	handlers.AssertErrorResponse(t, w, 404)
}

func TestPermanentlyDelete_Success(t *testing.T) {
	mockService := &handlers.MockMemberService{
		PermanentDeleteFunc: func(ctx context.Context, id int64) error {
			return nil
		},
	}

	handler := handlers.NewMemberHandler(mockService)
	req := handlers.WithURLParam(handlers.NewTestRequest(t, "DELETE", "/members/7/permanent", nil), "id", "7")

	w := httptest.NewRecorder()
	handler.PermanentlyDelete(w, req)

	var resp handlers.MessageResponse
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, "Member permanently deleted", resp.Message)
}

func TestGetStats_Success(t *testing.T) {
	mockService := &handlers.MockMemberService{
		StatsFunc: func(ctx context.Context) (*models.MemberStats, error) {
			return &models.MemberStats{Total: 4, Kids: 2, Adults: 1, Singles: 2, Married: 1, Widows: 1}, nil
		},
	}

	handler := handlers.NewMemberHandler(mockService)
	req := handlers.NewTestRequest(t, "GET", "/members/stats", nil)

	w := httptest.NewRecorder()
	handler.GetStats(w, req)

	var resp struct {
		Data *models.MemberStats `json:"data"`
	}
	handlers.AssertJSONResponse(t, w, 200, &resp)
	assert.Equal(t, int64(4), resp.Data.Total)
	assert.Equal(t, int64(2), resp.Data.Kids)
	assert.Equal(t, int64(1), resp.Data.Widows)
}

func TestGetStats_DatabaseError(t *testing.T) {
	mockService := &handlers.MockMemberService{
		StatsFunc: func(ctx context.Context) (*models.MemberStats, error) {
			return nil, models.ErrInternalServer
		},
	}

	handler := handlers.NewMemberHandler(mockService)
	req := handlers.NewTestRequest(t, "GET", "/members/stats", nil)

	w := httptest.NewRecorder()
	handler.GetStats(w, req)

	handlers.AssertErrorResponse(t, w, 500)
}
