// Copyright 2024 The enotescan Authors
// This file is part of the enotescan library.
//
// The enotescan library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The enotescan library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the enotescan library. If not, see <http://www.gnu.org/licenses/>.

package scanmachine

import "github.com/xmrcore/enotescan/metrics"

// Registered once at package init, the way the teacher's own subsystems
// declare their metrics as package-level vars rather than per-instance.
var (
	chunksProcessed = metrics.NewRegisteredCounter("scan_chunks_processed", "chunks committed to the enote store by a scan machine")
	reorgsTotal     = metrics.NewRegisteredCounter("scan_reorgs_total", "NEED_PARTIALSCAN/NEED_FULLSCAN transitions handled by a scan machine")
)
