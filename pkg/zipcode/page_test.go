package zipcode

import "testing"

func TestParsePageRequest(t *testing.T) {
	cases := []struct {
		name    string
		page    string
		perPage string
		want    PageRequest
	}{
		{"both valid", "3", "10", PageRequest{Page: 3, PerPage: 10}},
		{"both empty", "", "", PageRequest{Page: 1, PerPage: 30}},
		{"non numeric", "abc", "xyz", PageRequest{Page: 1, PerPage: 30}},
		{"zero", "0", "0", PageRequest{Page: 1, PerPage: 30}},
		{"negative", "-2", "-5", PageRequest{Page: 1, PerPage: 30}},
		{"page only", "7", "", PageRequest{Page: 7, PerPage: 30}},
		{"per page only", "", "5", PageRequest{Page: 1, PerPage: 5}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParsePageRequest(tc.page, tc.perPage); got != tc.want {
				t.Fatalf("ParsePageRequest(%q, %q) = %+v, want %+v", tc.page, tc.perPage, got, tc.want)
			}
		})
	}
}

func TestPageRequest_Offset(t *testing.T) {
	cases := []struct {
		req  PageRequest
		want int64
	}{
		{PageRequest{Page: 1, PerPage: 30}, 0},
		{PageRequest{Page: 2, PerPage: 30}, 30},
		{PageRequest{Page: 4, PerPage: 7}, 21},
	}

	for _, tc := range cases {
		if got := tc.req.Offset(); got != tc.want {
			t.Fatalf("Offset(%+v) = %d, want %d", tc.req, got, tc.want)
		}
	}
}
