// Copyright (c) 2017 The Kegbot Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commons_test

import (
	"reflect"
	"testing"

	"github.com/kegbot/kegbot.go/pkg/commons"
)

func TestGraph_ShortestPath(t *testing.T) {
	g := commons.NewGraph(
		commons.Edge{From: "a", To: "b"},
		commons.Edge{From: "b", To: "c"},
		commons.Edge{From: "c", To: "d"},
		commons.Edge{From: "a", To: "c"},
	)

	if path := g.ShortestPath("a", "d"); !reflect.DeepEqual(path, []string{"a", "c", "d"}) {
		t.Errorf("expected the shortcut through c : %v", path)
	}
	if path := g.ShortestPath("b", "d"); !reflect.DeepEqual(path, []string{"b", "c", "d"}) {
		t.Errorf("expected b -> c -> d : %v", path)
	}
}

func TestGraph_ShortestPathSelf(t *testing.T) {
	g := commons.NewGraph(commons.Edge{From: "a", To: "b"})
	if path := g.ShortestPath("a", "a"); !reflect.DeepEqual(path, []string{"a"}) {
		t.Errorf("a node should be reachable from itself : %v", path)
	}
	if path := g.ShortestPath("z", "z"); !reflect.DeepEqual(path, []string{"z"}) {
		t.Errorf("self-reachability should not require declared edges : %v", path)
	}
}

func TestGraph_ShortestPathUnreachable(t *testing.T) {
	g := commons.NewGraph(
		commons.Edge{From: "a", To: "b"},
		commons.Edge{From: "c", To: "d"},
	)
	if path := g.ShortestPath("a", "d"); path != nil {
		t.Errorf("d is not reachable from a : %v", path)
	}
	// edges are directed
	if path := g.ShortestPath("b", "a"); path != nil {
		t.Errorf("edges should not be traversable backwards : %v", path)
	}
}

func TestGraph_ShortestPathCycle(t *testing.T) {
	g := commons.NewGraph(
		commons.Edge{From: "a", To: "b"},
		commons.Edge{From: "b", To: "a"},
		commons.Edge{From: "b", To: "c"},
	)
	if path := g.ShortestPath("a", "c"); !reflect.DeepEqual(path, []string{"a", "b", "c"}) {
		t.Errorf("cycles should not prevent termination : %v", path)
	}
}
