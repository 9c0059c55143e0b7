package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"movie-crew-api/internal/domain"
)

type fakeDynamo struct {
	queryOut    *dynamodb.QueryOutput
	queryErr    error
	queryCalls  int
	lastQueryIn *dynamodb.QueryInput
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.queryCalls++
	f.lastQueryIn = in
	return f.queryOut, f.queryErr
}

func makeCrewItem(movieID, role, names string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"movieId":  &types.AttributeValueMemberN{Value: movieID},
		"crewRole": &types.AttributeValueMemberS{Value: role},
		"names":    &types.AttributeValueMemberS{Value: names},
	}
}

func mustNewClient(t *testing.T, db *fakeDynamo) *Client {
	t.Helper()
	c, err := New(db, "crew-table")
	require.NoError(t, err)
	return c
}

// placeholderFor returns the expression placeholder bound to an attribute name.
func placeholderFor(t *testing.T, names map[string]string, attr string) string {
	t.Helper()
	for k, v := range names {
		if v == attr {
			return k
		}
	}
	t.Fatalf("attribute %q not present in expression names %v", attr, names)
	return ""
}

func TestQueryCrew_HappyPath(t *testing.T) {
	db := &fakeDynamo{queryOut: &dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{
			makeCrewItem("550", "Director", "David Fincher"),
		},
	}}
	c := mustNewClient(t, db)

	records, err := c.QueryCrew(context.Background(), 550, "Director")
	require.NoError(t, err)
	require.Equal(t, []domain.CrewRecord{{MovieID: 550, CrewRole: "Director", Names: "David Fincher"}}, records)
	require.Equal(t, 1, db.queryCalls)
}

func TestQueryCrew_PreservesStoreOrder(t *testing.T) {
	db := &fakeDynamo{queryOut: &dynamodb.QueryOutput{
		Items: []map[string]types.AttributeValue{
			makeCrewItem("550", "Producer", "Ross Grayson Bell"),
			makeCrewItem("550", "Producer", "Ceán Chaffin"),
			makeCrewItem("550", "Producer", "Art Linson"),
		},
	}}
	c := mustNewClient(t, db)

	records, err := c.QueryCrew(context.Background(), 550, "Producer")
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "Ross Grayson Bell", records[0].Names)
	require.Equal(t, "Ceán Chaffin", records[1].Names)
	require.Equal(t, "Art Linson", records[2].Names)
}

func TestQueryCrew_EmptyResult(t *testing.T) {
	db := &fakeDynamo{queryOut: &dynamodb.QueryOutput{}}
	c := mustNewClient(t, db)

	records, err := c.QueryCrew(context.Background(), 999, "Director")
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestQueryCrew_NilOutput(t *testing.T) {
	db := &fakeDynamo{}
	c := mustNewClient(t, db)

	records, err := c.QueryCrew(context.Background(), 999, "Director")
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestQueryCrew_QueryError(t *testing.T) {
	db := &fakeDynamo{queryErr: errors.New("ResourceNotFoundException")}
	c := mustNewClient(t, db)

	_, err := c.QueryCrew(context.Background(), 550, "Director")
	require.Error(t, err)
	require.Contains(t, err.Error(), "QueryCrew")
	require.ErrorContains(t, err, "ResourceNotFoundException")
}

func TestQueryCrew_MalformedItem(t *testing.T) {
	item := makeCrewItem("550", "Director", "David Fincher")
	item["movieId"] = &types.AttributeValueMemberS{Value: "not-a-number"}
	db := &fakeDynamo{queryOut: &dynamodb.QueryOutput{Items: []map[string]types.AttributeValue{item}}}
	c := mustNewClient(t, db)

	_, err := c.QueryCrew(context.Background(), 550, "Director")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unmarshal")
}

func TestQueryCrew_KeyCondition(t *testing.T) {
	db := &fakeDynamo{queryOut: &dynamodb.QueryOutput{}}
	c := mustNewClient(t, db)

	_, err := c.QueryCrew(context.Background(), 550, "Director")
	require.NoError(t, err)

	in := db.lastQueryIn
	require.NotNil(t, in)
	require.Equal(t, "crew-table", *in.TableName)
	require.NotNil(t, in.KeyConditionExpression)
	require.Nil(t, in.FilterExpression)
	require.Nil(t, in.IndexName)
	require.Nil(t, in.Limit)

	movieName := placeholderFor(t, in.ExpressionAttributeNames, "movieId")
	roleName := placeholderFor(t, in.ExpressionAttributeNames, "crewRole")
	require.Contains(t, *in.KeyConditionExpression, movieName+" = ")
	require.Contains(t, *in.KeyConditionExpression, roleName+" = ")
	require.NotContains(t, *in.KeyConditionExpression, "begins_with")

	require.Len(t, in.ExpressionAttributeValues, 2)
	var gotN, gotS string
	for _, v := range in.ExpressionAttributeValues {
		switch tv := v.(type) {
		case *types.AttributeValueMemberN:
			gotN = tv.Value
		case *types.AttributeValueMemberS:
			gotS = tv.Value
		}
	}
	require.Equal(t, "550", gotN)
	require.Equal(t, "Director", gotS)
}

func TestNew_NilAPI(t *testing.T) {
	_, err := New(nil, "crew-table")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be nil")
}

func TestNew_EmptyTableName(t *testing.T) {
	_, err := New(&fakeDynamo{}, " ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "must not be empty")
}
