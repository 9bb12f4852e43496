package api_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/riordanpawley/vantage/internal/api/apitest"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tok = apitest.AccessToken

func TestAuth_Login(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	pair, err := client.Login(ctx, domain.Credentials{Email: apitest.Email, Password: apitest.Password})
	require.NoError(t, err)
	assert.Equal(t, domain.TokenPair{AccessToken: apitest.AccessToken, RefreshToken: apitest.RefreshToken}, pair)

	_, err = client.Login(ctx, domain.Credentials{Email: apitest.Email, Password: "wrong"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, "Invalid email or password", domain.UserMessage(err))
}

func TestAuth_RegisterAndDuplicate(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()
	reg := domain.Registration{Email: "new@acme.io", Password: "longenough", ConfirmPassword: "longenough"}

	msg, err := client.Register(ctx, reg)
	require.NoError(t, err)
	assert.NotEmpty(t, msg.Message)

	_, err = client.Register(ctx, reg)
	require.Error(t, err)
	assert.Equal(t, "An account with this email already exists", domain.UserMessage(err))
}

func TestAuth_RefreshKeepsRefreshToken(t *testing.T) {
	client, _ := newClient(t)

	pair, err := client.RefreshToken(context.Background(), apitest.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, apitest.AccessToken, pair.AccessToken)
	assert.Equal(t, apitest.RefreshToken, pair.RefreshToken)

	_, err = client.RefreshToken(context.Background(), "bogus")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuth_LogoutToleratesRejection(t *testing.T) {
	client, srv := newClient(t)
	srv.Fail(http.MethodPost, "/api/auth/logout", http.StatusBadRequest, `{"detail":"Token is blacklisted"}`)

	assert.NoError(t, client.Logout(context.Background(), tok, "r"))
	assert.NoError(t, client.Logout(context.Background(), tok, "r"))
	assert.Equal(t, 2, srv.RequestCount())
}

func TestAuth_VerifyEmail(t *testing.T) {
	client, _ := newClient(t)

	_, err := client.VerifyEmail(context.Background(), "abc")
	require.NoError(t, err)

	_, err = client.VerifyEmail(context.Background(), "expired")
	require.Error(t, err)
	assert.Equal(t, "Verification link expired", domain.UserMessage(err))
}

func TestActionItems_CRUD(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	created, err := client.CreateActionItem(ctx, tok, domain.NewTask{
		Title:    "Document sales process",
		Source:   "Operations",
		Priority: domain.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ColumnTodo, created.Column)
	assert.Equal(t, 0, created.Position)

	title := "Document the sales process"
	col := domain.ColumnInProgress
	updated, err := client.UpdateActionItem(ctx, tok, created.ID, domain.TaskPatch{Title: &title, Column: &col})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, domain.ColumnInProgress, updated.Column)

	note, err := client.AddActionItemNote(ctx, tok, created.ID, "Talked to the sales lead")
	require.NoError(t, err)
	assert.Equal(t, "Olivia Owner", note.Author)

	got, err := client.GetActionItem(ctx, tok, created.ID)
	require.NoError(t, err)
	require.Len(t, got.Notes, 1)

	inProgress, err := client.ListActionItems(ctx, tok, domain.ColumnInProgress)
	require.NoError(t, err)
	require.Len(t, inProgress, 1)

	todo, err := client.ListActionItems(ctx, tok, domain.ColumnTodo)
	require.NoError(t, err)
	assert.Empty(t, todo)

	require.NoError(t, client.DeleteActionItem(ctx, tok, created.ID))
	_, err = client.GetActionItem(ctx, tok, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestActionItems_BoardAndBulkMove(t *testing.T) {
	client, srv := newClient(t)
	ctx := context.Background()
	srv.SeedBoard(
		domain.Task{ID: "a", Title: "A", Column: domain.ColumnTodo, Priority: domain.PriorityHigh},
		domain.Task{ID: "b", Title: "B", Column: domain.ColumnTodo, Priority: domain.PriorityLow},
		domain.Task{ID: "c", Title: "C", Column: domain.ColumnCompleted, Priority: domain.PriorityMedium},
	)

	board, err := client.GetBoard(ctx, tok)
	require.NoError(t, err)
	assert.Len(t, board.Column(domain.ColumnTodo), 2)
	assert.Empty(t, board.Column(domain.ColumnInProgress))
	assert.Len(t, board.Column(domain.ColumnCompleted), 1)

	placements := []domain.BoardPlacement{
		{ID: "b", Column: domain.ColumnTodo, Position: 0},
		{ID: "c", Column: domain.ColumnCompleted, Position: 0},
		{ID: "a", Column: domain.ColumnCompleted, Position: 1},
	}
	res, err := client.BulkMoveActionItems(ctx, tok, placements)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Updated)

	board, err = client.GetBoard(ctx, tok)
	require.NoError(t, err)
	ids := func(tasks []domain.Task) []string {
		out := make([]string, len(tasks))
		for i, t := range tasks {
			out[i] = t.ID
		}
		return out
	}
	assert.Equal(t, []string{"b"}, ids(board.Todo))
	assert.Equal(t, []string{"c", "a"}, ids(board.Completed))

	srv.Lock()
	recorded := srv.Placements
	srv.Unlock()
	require.Len(t, recorded, 1)
	if diff := cmp.Diff(placements, recorded[0]); diff != "" {
		t.Errorf("placements mismatch (-want +got):\n%s", diff)
	}
}

func TestEnterprise_Lifecycle(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	_, err := client.GetEnterprise(ctx, tok)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ent, err := client.CreateEnterprise(ctx, tok, domain.Enterprise{Name: "Acme", Industry: "Retail"})
	require.NoError(t, err)
	assert.NotEmpty(t, ent.ID)

	ent.Size = "11-50"
	updated, err := client.UpdateEnterprise(ctx, tok, ent)
	require.NoError(t, err)
	assert.Equal(t, ent, updated)

	_, err = client.CreateEnterprise(ctx, tok, domain.Enterprise{})
	assert.Equal(t, "Enterprise name is required", domain.UserMessage(err))

	require.NoError(t, client.DeleteEnterprise(ctx, tok))
}

func TestAccount_ProfileAndSettings(t *testing.T) {
	client, _ := newClient(t)
	ctx := context.Background()

	first := "Liv"
	p, err := client.UpdateProfile(ctx, tok, domain.ProfileUpdate{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Liv Owner", p.FullName())

	ns, err := client.GetNotificationSettings(ctx, tok)
	require.NoError(t, err)
	ns.DigestFrequency = "daily"
	ns.TaskDueReminders = true
	saved, err := client.UpdateNotificationSettings(ctx, tok, ns)
	require.NoError(t, err)
	assert.Equal(t, ns, saved)

	_, err = client.ChangePassword(ctx, tok, domain.PasswordChange{CurrentPassword: "nope", NewPassword: "newpassword"})
	assert.Equal(t, "Current password is incorrect", domain.UserMessage(err))

	_, err = client.ChangePassword(ctx, tok, domain.PasswordChange{CurrentPassword: apitest.Password, NewPassword: "newpassword"})
	require.NoError(t, err)
	_, err = client.Login(ctx, domain.Credentials{Email: apitest.Email, Password: "newpassword"})
	require.NoError(t, err)

	require.NoError(t, client.DeleteAccount(ctx, tok))
}

func TestAssessments_SubmitAndUpload(t *testing.T) {
	client, srv := newClient(t)
	ctx := context.Background()

	_, err := client.GetQuestionnaire(ctx, tok)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	srv.Lock()
	srv.Questionnaire = []domain.Category{{Key: "finance", Name: "Finance", Questions: []domain.Question{
		{ID: "f1", Prompt: "Do you track cash flow?", Options: []string{"No", "Sometimes", "Monthly", "Weekly"}},
	}}}
	srv.Unlock()

	q, err := client.GetQuestionnaire(ctx, tok)
	require.NoError(t, err)
	require.Len(t, q.Categories, 1)
	assert.Equal(t, "f1", q.Categories[0].Questions[0].ID)

	res, err := client.SubmitAnswers(ctx, tok, []domain.Answer{{QuestionID: "f1", OptionIndex: 3}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Saved)

	list, err := client.ListAssessments(ctx, tok)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, res.AssessmentID, list[0].ID)

	report, err := client.RecomputeScores(ctx, tok, res.AssessmentID)
	require.NoError(t, err)
	assert.Equal(t, res.AssessmentID, report.AssessmentID)

	path := filepath.Join(t.TempDir(), "balance.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))
	ev, err := client.UploadEvidence(ctx, tok, "finance", domain.Attachment{Name: "balance.csv", Path: path, MimeType: "text/csv"})
	require.NoError(t, err)
	assert.Equal(t, "balance.csv", ev.Filename)
	assert.Equal(t, int64(8), ev.Size)

	_, err = client.UploadEvidence(ctx, tok, "finance", domain.Attachment{Name: "gone", Path: filepath.Join(t.TempDir(), "gone")})
	assert.Equal(t, "Could not read attachment", domain.UserMessage(err))

	require.NoError(t, client.ResetAnswers(ctx, tok))
	srv.Lock()
	assert.Equal(t, []string{"finance/balance.csv"}, srv.Evidence)
	assert.Equal(t, 1, srv.Resets)
	srv.Unlock()
}

func TestTeam_Invitations(t *testing.T) {
	client, srv := newClient(t)
	ctx := context.Background()

	inv, err := client.SendInvitation(ctx, tok, domain.InvitationRequest{Email: "mate@acme.io"})
	require.NoError(t, err)
	assert.Equal(t, "member", inv.Role)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), inv.ExpiresAt, time.Minute)

	_, err = client.SendInvitation(ctx, tok, domain.InvitationRequest{Email: "mate@acme.io"})
	assert.Equal(t, "An invitation was already sent to mate@acme.io", domain.UserMessage(err))

	pending, err := client.ListInvitations(ctx, tok)
	require.NoError(t, err)
	if diff := cmp.Diff([]domain.Invitation{inv}, pending, cmpopts.EquateApproxTime(time.Second)); diff != "" {
		t.Errorf("pending invitations mismatch (-want +got):\n%s", diff)
	}

	require.NoError(t, client.RevokeInvitation(ctx, tok, inv.ID))
	assert.ErrorIs(t, client.RevokeInvitation(ctx, tok, inv.ID), domain.ErrNotFound)

	srv.Lock()
	srv.Members = []domain.TeamMember{{ID: "m1", Email: "mate@acme.io", Name: "Mate", Role: "member"}}
	srv.Unlock()
	members, err := client.ListTeamMembers(ctx, tok)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.NoError(t, client.RemoveTeamMember(ctx, tok, "m1"))

	portal, err := client.GetTeamPortal(ctx, tok)
	require.NoError(t, err)
	assert.Empty(t, portal.Members)
}

func TestTeam_AcceptInvitation(t *testing.T) {
	client, srv := newClient(t)
	ctx := context.Background()
	srv.Lock()
	srv.Invitations["tok-1"] = domain.InvitationInfo{EnterpriseName: "Acme", InviterName: "Olivia", Email: "mate@acme.io"}
	srv.Unlock()

	_, err := client.ValidateInvitation(ctx, "unknown")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	info, err := client.ValidateInvitation(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", info.EnterpriseName)

	pair, err := client.AcceptInvitation(ctx, domain.InvitationAcceptance{Token: "tok-1", Password: "longenough", ConfirmPassword: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, apitest.AccessToken, pair.AccessToken)

	_, err = client.Login(ctx, domain.Credentials{Email: "mate@acme.io", Password: "longenough"})
	assert.NoError(t, err)
}
