package orders

import (
	"encoding/json"
	"reflect"
	"testing"
)

const sampleItems = `[
	{"menu_id":"S001_M001","shop_id":"S001","status":0,"name":"Mohinga","quantity":2,"price":"3500"},
	{"menu_id":"S002_M004","shop_id":"S002","status":1,"name":"Tea Leaf Salad","quantity":1,"price":"2800","note":"less oil"}
]`

func TestItemListDecodeArray(t *testing.T) {
	var l ItemList
	if err := json.Unmarshal([]byte(sampleItems), &l); err != nil {
		t.Fatalf("decode array form: %v", err)
	}
	if len(l) != 2 {
		t.Fatalf("got %d items, want 2", len(l))
	}
	if l[0].MenuID != "S001_M001" || l[0].ShopID != "S001" || l[0].Status != StatusPending {
		t.Errorf("item 0 = %+v", l[0])
	}
	if l[1].Status != StatusApproved {
		t.Errorf("item 1 status = %v, want approved", l[1].Status)
	}
	if string(l[1].Extra["note"]) != `"less oil"` {
		t.Errorf("item 1 note = %s", l[1].Extra["note"])
	}
}

// Multipart clients send the item list as a JSON string containing an
// array; some drivers return JSON columns the same way.
func TestItemListDecodeStringWrapped(t *testing.T) {
	wrapped, err := json.Marshal(sampleItems)
	if err != nil {
		t.Fatal(err)
	}
	var l ItemList
	if err := json.Unmarshal(wrapped, &l); err != nil {
		t.Fatalf("decode string form: %v", err)
	}
	if len(l) != 2 || l[0].MenuID != "S001_M001" {
		t.Fatalf("string-wrapped decode lost items: %+v", l)
	}
}

// Decoding then re-encoding an unmodified list must keep every key/value
// pair and the array order, including fields the approval engine never
// looks at.
func TestItemListRoundTrip(t *testing.T) {
	var l ItemList
	if err := json.Unmarshal([]byte(sampleItems), &l); err != nil {
		t.Fatal(err)
	}
	encoded, err := json.Marshal(l)
	if err != nil {
		t.Fatal(err)
	}

	var want, got []map[string]any
	if err := json.Unmarshal([]byte(sampleItems), &want); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(encoded, &got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("round trip changed content:\n want %v\n got  %v", want, got)
	}
}

func TestItemStatusDefaultsToPending(t *testing.T) {
	var l ItemList
	if err := json.Unmarshal([]byte(`[{"menu_id":"M1","shop_id":"S1","name":"x"}]`), &l); err != nil {
		t.Fatal(err)
	}
	if l[0].Status != StatusPending {
		t.Errorf("missing status decoded as %v, want pending", l[0].Status)
	}
}

func TestItemListDecodeMalformed(t *testing.T) {
	for _, in := range []string{`{`, `"{"`, `"not json"`, `[{"menu_id":1}]`} {
		var l ItemList
		if err := json.Unmarshal([]byte(in), &l); err == nil {
			t.Errorf("decode %q: expected error", in)
		}
	}
}

func TestAllApproved(t *testing.T) {
	tests := []struct {
		name  string
		items ItemList
		want  bool
	}{
		{"all approved", ItemList{{Status: StatusApproved}, {Status: StatusApproved}}, true},
		{"one pending", ItemList{{Status: StatusApproved}, {Status: StatusPending}}, false},
		{"one rejected", ItemList{{Status: StatusApproved}, {Status: StatusRejected}}, false},
		{"empty list never ready", ItemList{}, false},
		{"nil list never ready", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.items.AllApproved(); got != tt.want {
				t.Errorf("AllApproved() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterByShop(t *testing.T) {
	l := ItemList{
		{MenuID: "M1", ShopID: "S1"},
		{MenuID: "M2", ShopID: "S2"},
		{MenuID: "M3", ShopID: " S1 "},
	}

	s1 := l.FilterByShop("S1")
	if len(s1) != 2 || s1[0].MenuID != "M1" || s1[1].MenuID != "M3" {
		t.Errorf("FilterByShop(S1) = %+v", s1)
	}
	s2 := l.FilterByShop("S2")
	if len(s2) != 1 || s2[0].MenuID != "M2" {
		t.Errorf("FilterByShop(S2) = %+v", s2)
	}
	if none := l.FilterByShop("S9"); len(none) != 0 {
		t.Errorf("FilterByShop(S9) = %+v, want empty", none)
	}
}

func TestShopIDs(t *testing.T) {
	l := ItemList{
		{ShopID: "S1"}, {ShopID: "S2"}, {ShopID: " S1"}, {ShopID: ""},
	}
	got := l.ShopIDs()
	if !reflect.DeepEqual(got, []string{"S1", "S2"}) {
		t.Errorf("ShopIDs() = %v", got)
	}
}

func TestItemStatusString(t *testing.T) {
	if StatusPending.String() != "pending" || StatusApproved.String() != "approved" ||
		StatusRejected.String() != "rejected" || ItemStatus(9).String() != "unknown" {
		t.Error("ItemStatus.String mismatch")
	}
	if !StatusRejected.Valid() || ItemStatus(3).Valid() {
		t.Error("ItemStatus.Valid mismatch")
	}
}
