// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/texpak

/*
Package texpak implements the PVRZ, ETCX and JPT texture containers: small
little-endian wrappers that pack a primary compressed-image blob and an
optional auxiliary blob (usually an alpha plane) into one file.

PVRZ and ETCX share a flagged layout: a 4-byte magic, a 32-bit flag word
(bit 0 has-auxiliary, bit 1 compressed), width and height copied verbatim
from the primary's PVR header, the payload sizes and the payload itself,
optionally deflated with zlib. When an auxiliary blob is present the length
of the primary blob is stored explicitly so the payload can be split back.

JPT is the older sibling: "JPT" plus a version byte, then a size-prefixed
JPEG and a size-prefixed PNG.

Create writes a container from source files, Merge additionally removes the
sources once the container is safely on disk, and Split restores the
original files byte for byte.
*/
package texpak
