// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

package tasru

import (
	"io"

	"github.com/bradleyjkemp/memviz"
)

// Memviz writes a Graphviz description of one unit's symbol cache to w,
// reflecting over its internal vectors and index maps. It's a debugging aid
// for understanding how a particular compilation unit's type graph is laid
// out in memory, not a public data format.
func (d *DebugInfo) Memviz(w io.Writer, unitIndex int) error {
	if unitIndex < 0 || unitIndex >= len(d.units) {
		return &ErrKindNotFound{Owner: "unit index out of range"}
	}
	memviz.Map(w, d.units[unitIndex])
	return nil
}
