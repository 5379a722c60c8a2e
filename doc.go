/*
 * doc.go, part of qeplotter.
 *
 * Copyright 2024 Şuayb Yıldız
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

/*Package qe is the main package of qeplotter. It reads the text outputs of the Quantum ESPRESSO
programs pw.x, bands.x, dos.x and projwfc.x into gonum-backed structures, and provides a few
analyses on them (band gaps, broadening, integration, grouping of projected densities of states).
The rendering lives in the qeplot subpackage.

	**qeplotter Capabilities**

    Reads band structures in the bands.dat.gnu and filband formats.

    Reads high-symmetry points from the bands.x output, and their labels from
	the K_POINTS card of a pw.x input (labels given as "!L" comments).

    Reads total densities of states from dos.x, and projected densities of
	states from projwfc.x. The projwfc.x files in a directory are read concurrently
	and can be grouped by atom, element or element and orbital.

    Reads the Fermi energy (or the HOMO/LUMO levels for insulators computed with fixed
	occupations) from the pw.x output.

    Obtains band gaps, direct or indirect, and detects metals.

    Broadens densities of states with a Gaussian, and computes a DOS from band eigenvalues.

    Reads gzip, zstd, lzw and bzip2-compressed files transparently.

Energies are always in eV. Band energies are kept in a gonum *mat.Dense, one row per k-point and
one column per band.*/
package qe
