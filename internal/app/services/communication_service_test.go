package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/studentrecords/internal/app/models"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
	"github.com/yigit/studentrecords/internal/pkg/helpers"
)

func TestCommunicationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	comms := env.svc.Communications.(*communicationServiceImpl)
	comms.now = fixedClock("2025-02-10T08:00:00Z")
	ctx := context.Background()

	queryID, err := comms.Submit(ctx, &models.Communication{
		Type:        "Query",
		Subject:     "Fee deadline",
		MessageText: "When is the last date?",
		SenderID:    helpers.StringPtr("admin"),
	})
	require.NoError(t, err)

	comms.now = fixedClock("2025-02-11T08:00:00Z")
	annID, err := comms.Submit(ctx, &models.Communication{
		Type:        models.CommAnnouncement,
		Subject:     "Holiday",
		MessageText: "Campus closed on Friday",
	})
	require.NoError(t, err)

	query, err := comms.Get(ctx, queryID)
	require.NoError(t, err)
	assert.Equal(t, models.CommQuery, query.Type)
	assert.Equal(t, models.CommPending, query.Status)
	assert.Equal(t, "2025-02-10 08:00:00", query.Timestamp)

	ann, err := comms.Get(ctx, annID)
	require.NoError(t, err)
	assert.Equal(t, models.CommPosted, ann.Status)

	all, err := comms.List(ctx, models.CommunicationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, annID, all[0].ID)

	require.NoError(t, comms.Respond(ctx, queryID, "  March 31  "))
	query, err = comms.Get(ctx, queryID)
	require.NoError(t, err)
	assert.Equal(t, models.CommAnswered, query.Status)
	assert.Equal(t, "March 31", helpers.Deref(query.ResponseText))
	assert.Equal(t, "2025-02-11 08:00:00", helpers.Deref(query.ResponseTimestamp))

	require.NoError(t, comms.MarkRead(ctx, queryID))
	query, err = comms.Get(ctx, queryID)
	require.NoError(t, err)
	assert.Equal(t, models.CommRead, query.Status)

	err = comms.Respond(ctx, annID, "ok")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	err = comms.MarkRead(ctx, annID)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))

	answered, err := comms.List(ctx, models.CommunicationFilter{Status: models.CommRead})
	require.NoError(t, err)
	require.Len(t, answered, 1)

	require.NoError(t, comms.Delete(ctx, queryID))
	_, err = comms.Get(ctx, queryID)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
	assert.True(t, errors.Is(comms.Delete(ctx, queryID), apperrors.ErrNotFound))
	assert.True(t, errors.Is(comms.Respond(ctx, queryID, "late"), apperrors.ErrNotFound))
}

func TestSubmitCommunicationValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		comm models.Communication
	}{
		{name: "unknown type", comm: models.Communication{Type: "complaint", Subject: "s", MessageText: "m"}},
		{name: "blank subject", comm: models.Communication{Type: models.CommQuery, Subject: " ", MessageText: "m"}},
		{name: "blank message", comm: models.Communication{Type: models.CommFeedback, Subject: "s"}},
		{name: "bad sender email", comm: models.Communication{Type: models.CommFeedback, Subject: "s", MessageText: "m", SenderEmail: helpers.StringPtr("nope")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.comm
			_, err := env.svc.Communications.Submit(ctx, &c)
			assert.True(t, errors.Is(err, apperrors.ErrValidation))
		})
	}

	err := env.svc.Communications.Respond(ctx, 1, " ")
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
}
