package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"reelmate_server/models"
)

// DynamoStore implements DocumentStore on DynamoDB. Document paths map
// onto tables: sessions -> Sessions, sessions/{id}/swipes -> Swipes
// (composite key), users -> UserProfiles.
//
// Union writes use list_append guarded by a NOT contains condition, so
// they are atomic, keep insertion order and never double-add; the
// conditional rejection for an already-present value is treated as
// success. Change notification rides an in-process hub: all writes go
// through this single backend process, and each successful mutation
// publishes the fresh snapshot to subscribers of the path.
type DynamoStore struct {
	Dynamo *DynamoService
	hub    *notifier
}

// NewDynamoStore creates a DynamoStore over an initialized client.
func NewDynamoStore(dynamo *DynamoService) *DynamoStore {
	return &DynamoStore{Dynamo: dynamo, hub: newNotifier()}
}

type tableSpec struct {
	table     string
	hashAttr  string
	rangeAttr string
}

// collectionSpec maps a path to its table. Unknown collections are a
// programming error and fail loudly.
func collectionSpec(path DocPath) (tableSpec, error) {
	switch {
	case path.Collection == "sessions" && path.SubCollection == "":
		return tableSpec{table: models.SessionsTable, hashAttr: "sessionId"}, nil
	case path.Collection == "sessions" && path.SubCollection == "swipes":
		return tableSpec{table: models.SwipesTable, hashAttr: "sessionId", rangeAttr: "movieId"}, nil
	case path.Collection == "users" && path.SubCollection == "":
		return tableSpec{table: models.UserProfilesTable, hashAttr: "userId"}, nil
	default:
		return tableSpec{}, fmt.Errorf("unknown document collection %q", path.String())
	}
}

// pathKeyFields returns the identity fields a stored document carries
// for its path. DynamoDB materializes these as key attributes; the
// memory store mirrors them for parity.
func pathKeyFields(path DocPath) map[string]string {
	spec, err := collectionSpec(path)
	if err != nil {
		return nil
	}
	fields := map[string]string{spec.hashAttr: path.ID}
	if spec.rangeAttr != "" {
		fields[spec.rangeAttr] = path.SubID
	}
	return fields
}

func (d *DynamoStore) keyFor(path DocPath) (tableSpec, map[string]types.AttributeValue, error) {
	spec, err := collectionSpec(path)
	if err != nil {
		return tableSpec{}, nil, err
	}
	key := map[string]types.AttributeValue{
		spec.hashAttr: &types.AttributeValueMemberS{Value: path.ID},
	}
	if spec.rangeAttr != "" {
		key[spec.rangeAttr] = &types.AttributeValueMemberS{Value: path.SubID}
	}
	return spec, key, nil
}

func storeErr(err error) error {
	return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
}

func decodeItem(item map[string]types.AttributeValue) (Doc, error) {
	var doc Doc
	if err := attributevalue.UnmarshalMap(item, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return doc, nil
}

// Get returns the document at path, or ErrNotFound.
func (d *DynamoStore) Get(ctx context.Context, path DocPath) (Doc, error) {
	spec, key, err := d.keyFor(path)
	if err != nil {
		return nil, err
	}
	item, err := d.Dynamo.GetItem(ctx, spec.table, key)
	if err != nil {
		return nil, storeErr(err)
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return decodeItem(item)
}

// Set writes the document at path. merge=false replaces the whole
// document; merge=true updates only the given fields.
func (d *DynamoStore) Set(ctx context.Context, path DocPath, doc Doc, merge bool) error {
	spec, key, err := d.keyFor(path)
	if err != nil {
		return err
	}

	if !merge {
		full := copyDoc(doc)
		for k, v := range pathKeyFields(path) {
			full[k] = v
		}
		if err := d.Dynamo.PutItem(ctx, spec.table, map[string]interface{}(full), ""); err != nil {
			return storeErr(err)
		}
		d.hub.publish(path.String(), full)
		return nil
	}

	fields := make([]string, 0, len(doc))
	for k := range doc {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	updateExpression := "SET "
	values := make(map[string]types.AttributeValue, len(fields))
	names := make(map[string]string, len(fields))
	for i, field := range fields {
		if i > 0 {
			updateExpression += ", "
		}
		namePlaceholder := fmt.Sprintf("#f%d", i)
		valuePlaceholder := fmt.Sprintf(":v%d", i)
		updateExpression += namePlaceholder + " = " + valuePlaceholder
		names[namePlaceholder] = field
		av, err := attributevalue.Marshal(doc[field])
		if err != nil {
			return fmt.Errorf("failed to marshal field %q: %w", field, err)
		}
		values[valuePlaceholder] = av
	}

	attrs, err := d.Dynamo.UpdateItem(ctx, spec.table, updateExpression, "", key, values, names)
	if err != nil {
		return storeErr(err)
	}
	updated, err := decodeItem(attrs)
	if err != nil {
		return err
	}
	d.hub.publish(path.String(), updated)
	return nil
}

// Create writes the document only if nothing exists at path.
func (d *DynamoStore) Create(ctx context.Context, path DocPath, doc Doc) error {
	spec, _, err := d.keyFor(path)
	if err != nil {
		return err
	}
	full := copyDoc(doc)
	for k, v := range pathKeyFields(path) {
		full[k] = v
	}
	condition := fmt.Sprintf("attribute_not_exists(%s)", spec.hashAttr)
	if err := d.Dynamo.PutItem(ctx, spec.table, map[string]interface{}(full), condition); err != nil {
		if IsConditionalCheckFailed(err) {
			return ErrAlreadyExists
		}
		return storeErr(err)
	}
	d.hub.publish(path.String(), full)
	return nil
}

// UpdateUnion appends value to the list field if absent, creating the
// item lazily via DynamoDB's upsert behavior.
func (d *DynamoStore) UpdateUnion(ctx context.Context, path DocPath, field, value string) (Doc, bool, error) {
	spec, key, err := d.keyFor(path)
	if err != nil {
		return nil, false, err
	}

	updateExpression := "SET #f = list_append(if_not_exists(#f, :empty), :add)"
	condition := "NOT contains(#f, :val)"
	values := map[string]types.AttributeValue{
		":empty": &types.AttributeValueMemberL{Value: []types.AttributeValue{}},
		":add":   &types.AttributeValueMemberL{Value: []types.AttributeValue{&types.AttributeValueMemberS{Value: value}}},
		":val":   &types.AttributeValueMemberS{Value: value},
	}
	names := map[string]string{"#f": field}

	attrs, err := d.Dynamo.UpdateItem(ctx, spec.table, updateExpression, condition, key, values, names)
	if err != nil {
		if IsConditionalCheckFailed(err) {
			// Value already present; read the current state instead.
			doc, getErr := d.Get(ctx, path)
			if getErr != nil {
				return nil, false, getErr
			}
			return doc, false, nil
		}
		return nil, false, storeErr(err)
	}

	updated, err := decodeItem(attrs)
	if err != nil {
		return nil, false, err
	}
	d.hub.publish(path.String(), updated)
	return updated, true, nil
}

// Subscribe delivers the current snapshot (nil if absent), then every
// subsequent mutation to the document.
func (d *DynamoStore) Subscribe(path DocPath, onNext func(Doc), onError func(error)) (Unsubscribe, error) {
	if _, err := collectionSpec(path); err != nil {
		return nil, err
	}
	fetch := func() (Doc, error) {
		doc, err := d.Get(context.Background(), path)
		if err == ErrNotFound {
			return nil, nil
		}
		return doc, err
	}
	return d.hub.subscribe(path.String(), fetch, onNext, onError), nil
}

// QueryWhere scans a top-level collection for documents whose field
// matches value.
func (d *DynamoStore) QueryWhere(ctx context.Context, collection, field, op string, value interface{}) ([]Doc, error) {
	spec, err := collectionSpec(NewDocPath(collection, "-"))
	if err != nil {
		return nil, err
	}

	names := map[string]string{"#f": field}
	values := map[string]types.AttributeValue{}
	var filter string

	switch op {
	case OpEqual:
		want, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s query needs a string value", ErrInvalidArgument, OpEqual)
		}
		filter = "#f = :v0"
		values[":v0"] = &types.AttributeValueMemberS{Value: want}
	case OpIn:
		want, ok := value.([]string)
		if !ok || len(want) == 0 {
			return nil, fmt.Errorf("%w: %s query needs a non-empty string list", ErrInvalidArgument, OpIn)
		}
		filter = "#f IN ("
		for i, v := range want {
			placeholder := fmt.Sprintf(":v%d", i)
			if i > 0 {
				filter += ", "
			}
			filter += placeholder
			values[placeholder] = &types.AttributeValueMemberS{Value: v}
		}
		filter += ")"
	default:
		return nil, fmt.Errorf("%w: unknown query operator %q", ErrInvalidArgument, op)
	}

	items, err := d.Dynamo.ScanItems(ctx, spec.table, filter, values, names)
	if err != nil {
		return nil, storeErr(err)
	}

	docs := make([]Doc, 0, len(items))
	for _, item := range items {
		doc, err := decodeItem(item)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
