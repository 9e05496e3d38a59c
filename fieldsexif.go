// Copyright 2026 The imagehat Authors
// SPDX-License-Identifier: MIT

package imagehat

// Tag tables for the EXIF 3.0 / TIFF 6.0 directories.
// Support levels are listed as compressed, chunky, planar and YCC.

var (
	tShortLong = []ExifType{TypeShort, TypeLong}
	tShort     = []ExifType{TypeShort}
	tLong      = []ExifType{TypeLong}
	tByte      = []ExifType{TypeByte}
	tRat       = []ExifType{TypeRational}
	tSRat      = []ExifType{TypeSRational}
	tASCII     = []ExifType{TypeASCII}
	tText      = []ExifType{TypeASCII, TypeUTF8}
	tUndef     = []ExifType{TypeUndefined}

	cAny = CountSpec{Any: true}
)

func cN(n ...uint32) CountSpec {
	return CountSpec{Values: n}
}

// levels parses a four letter support string such as "JMMM".
func levels(s string) SupportLevels {
	var l SupportLevels
	for i := range l {
		switch s[i] {
		case 'M':
			l[i] = SupportMandatory
		case 'R':
			l[i] = SupportRecommended
		case 'O':
			l[i] = SupportOptional
		case 'N':
			l[i] = SupportNotRecorded
		case 'J':
			l[i] = SupportJPEGMarker
		default:
			l[i] = SupportUnknown
		}
	}
	return l
}

func def(id uint16, name string, types []ExifType, count CountSpec, support string) TagDef {
	return TagDef{ID: id, Name: name, Types: types, Count: count, Support: levels(support)}
}

const (
	tagExifIFDPointer    = 0x8769
	tagGPSInfoIFDPointer = 0x8825
	tagInteropIFDPointer = 0xa005
)

var fieldsTIFF = []TagDef{
	def(0x0100, "ImageWidth", tShortLong, cN(1), "JMMM"),
	def(0x0101, "ImageLength", tShortLong, cN(1), "JMMM"),
	def(0x0102, "BitsPerSample", tShort, cN(3), "JMMM"),
	def(0x0103, "Compression", tShort, cN(1), "JMMM"),
	def(0x0106, "PhotometricInterpretation", tShort, cN(1), "NMMM"),
	def(0x010e, "ImageDescription", tText, cAny, "RRRR"),
	def(0x010f, "Make", tText, cAny, "RRRR"),
	def(0x0110, "Model", tText, cAny, "RRRR"),
	def(0x0111, "StripOffsets", tShortLong, cAny, "NMMM"),
	def(0x0112, "Orientation", tShort, cN(1), "RRRR"),
	def(0x0115, "SamplesPerPixel", tShort, cN(1), "JMMM"),
	def(0x0116, "RowsPerStrip", tShortLong, cN(1), "NMMM"),
	def(0x0117, "StripByteCounts", tShortLong, cAny, "NMMM"),
	def(0x011a, "XResolution", tRat, cN(1), "OOOO"),
	def(0x011b, "YResolution", tRat, cN(1), "OOOO"),
	def(0x011c, "PlanarConfiguration", tShort, cN(1), "JOMO"),
	def(0x0128, "ResolutionUnit", tShort, cN(1), "OOOO"),
	def(0x012d, "TransferFunction", tShort, cN(768), "OOOO"),
	def(0x0131, "Software", tText, cAny, "OOOO"),
	def(0x0132, "DateTime", tASCII, cN(20), "RRRR"),
	def(0x013b, "Artist", tText, cAny, "OOOO"),
	def(0x013e, "WhitePoint", tRat, cN(2), "OOOO"),
	def(0x013f, "PrimaryChromaticities", tRat, cN(6), "OOOO"),
	def(0x0201, "JPEGInterchangeFormat", tLong, cN(1), "NNNN"),
	def(0x0202, "JPEGInterchangeFormatLength", tLong, cN(1), "NNNN"),
	def(0x0211, "YCbCrCoefficients", tRat, cN(3), "OOOO"),
	def(0x0212, "YCbCrSubSampling", tShort, cN(2), "MMMJ"),
	def(0x0213, "YCbCrPositioning", tShort, cN(1), "MMMM"),
	def(0x0214, "ReferenceBlackWhite", tRat, cN(6), "OOOO"),
	def(0x8298, "Copyright", tText, cAny, "OOOO"),
	def(tagExifIFDPointer, "ExifIFDPointer", tLong, cN(1), "MMMM"),
	def(tagGPSInfoIFDPointer, "GPSInfoIFDPointer", tLong, cN(1), "OOOO"),
}

// Support levels that differ for the thumbnail (1st IFD).
// Tags not listed here are optional in the thumbnail.
var thumbnailSupport = map[uint16]string{
	0x0100: "JMMM",
	0x0101: "JMMM",
	0x0102: "JMMM",
	0x0103: "MMMM",
	0x0106: "JMMM",
	0x0111: "NMMM",
	0x0115: "JMMM",
	0x0116: "NMMM",
	0x0117: "NMMM",
	0x011c: "JOMO",
	0x0201: "MNNN",
	0x0202: "MNNN",
	0x0211: "ONNO",
	0x0212: "JNNM",
	0x0213: "ONNO",
}

func thumbnailFields() []TagDef {
	defs := make([]TagDef, len(fieldsTIFF))
	for i, d := range fieldsTIFF {
		s, found := thumbnailSupport[d.ID]
		if !found {
			s = "OOOO"
		}
		d.Support = levels(s)
		defs[i] = d
	}
	return defs
}

var fieldsEXIF = []TagDef{
	def(0x829a, "ExposureTime", tRat, cN(1), "RRRR"),
	def(0x829d, "FNumber", tRat, cN(1), "OOOO"),
	def(0x8822, "ExposureProgram", tShort, cN(1), "OOOO"),
	def(0x8824, "SpectralSensitivity", tASCII, cAny, "OOOO"),
	def(0x8827, "PhotographicSensitivity", tShort, cAny, "OOOO"),
	def(0x8828, "OECF", tUndef, cAny, "OOOO"),
	def(0x8830, "SensitivityType", tShort, cN(1), "OOOO"),
	def(0x8831, "StandardOutputSensitivity", tLong, cN(1), "OOOO"),
	def(0x8832, "RecommendedExposureIndex", tLong, cN(1), "OOOO"),
	def(0x8833, "ISOSpeed", tLong, cN(1), "OOOO"),
	def(0x8834, "ISOSpeedLatitudeyyy", tLong, cN(1), "OOOO"),
	def(0x8835, "ISOSpeedLatitudezzz", tLong, cN(1), "OOOO"),
	def(0x9000, "ExifVersion", tUndef, cN(4), "MMMM"),
	def(0x9003, "DateTimeOriginal", tASCII, cN(20), "OOOO"),
	def(0x9004, "DateTimeDigitized", tASCII, cN(20), "OOOO"),
	def(0x9010, "OffsetTime", tASCII, cN(7), "OOOO"),
	def(0x9011, "OffsetTimeOriginal", tASCII, cN(7), "OOOO"),
	def(0x9012, "OffsetTimeDigitized", tASCII, cN(7), "OOOO"),
	def(0x9101, "ComponentsConfiguration", tUndef, cN(4), "NNNM"),
	def(0x9102, "CompressedBitsPerPixel", tRat, cN(1), "NNNO"),
	def(0x9201, "ShutterSpeedValue", tSRat, cN(1), "OOOO"),
	def(0x9202, "ApertureValue", tRat, cN(1), "OOOO"),
	def(0x9203, "BrightnessValue", tSRat, cN(1), "OOOO"),
	def(0x9204, "ExposureBiasValue", tSRat, cN(1), "OOOO"),
	def(0x9205, "MaxApertureValue", tRat, cN(1), "OOOO"),
	def(0x9206, "SubjectDistance", tRat, cN(1), "OOOO"),
	def(0x9207, "MeteringMode", tShort, cN(1), "OOOO"),
	def(0x9208, "LightSource", tShort, cN(1), "OOOO"),
	def(0x9209, "Flash", tShort, cN(1), "RRRR"),
	def(0x920a, "FocalLength", tRat, cN(1), "OOOO"),
	def(0x9214, "SubjectArea", tShort, cN(2, 3, 4), "OOOO"),
	def(0x927c, "MakerNote", tUndef, cAny, "OOOO"),
	def(0x9286, "UserComment", tUndef, cAny, "OOOO"),
	def(0x9290, "SubSecTime", tASCII, cAny, "OOOO"),
	def(0x9291, "SubSecTimeOriginal", tASCII, cAny, "OOOO"),
	def(0x9292, "SubSecTimeDigitized", tASCII, cAny, "OOOO"),
	def(0x9400, "Temperature", tSRat, cN(1), "OOOO"),
	def(0x9401, "Humidity", tRat, cN(1), "OOOO"),
	def(0x9402, "Pressure", tRat, cN(1), "OOOO"),
	def(0x9403, "WaterDepth", tSRat, cN(1), "OOOO"),
	def(0x9404, "Acceleration", tRat, cN(1), "OOOO"),
	def(0x9405, "CameraElevationAngle", tSRat, cN(1), "OOOO"),
	def(0xa000, "FlashpixVersion", tUndef, cN(4), "OOOO"),
	def(0xa001, "ColorSpace", tShort, cN(1), "MMMM"),
	def(0xa002, "PixelXDimension", tShortLong, cN(1), "MNNN"),
	def(0xa003, "PixelYDimension", tShortLong, cN(1), "MNNN"),
	def(0xa004, "RelatedSoundFile", tASCII, cN(13), "OOOO"),
	def(tagInteropIFDPointer, "InteroperabilityIFDPointer", tLong, cN(1), "ONNN"),
	def(0xa20b, "FlashEnergy", tRat, cN(1), "OOOO"),
	def(0xa20c, "SpatialFrequencyResponse", tUndef, cAny, "OOOO"),
	def(0xa20e, "FocalPlaneXResolution", tRat, cN(1), "OOOO"),
	def(0xa20f, "FocalPlaneYResolution", tRat, cN(1), "OOOO"),
	def(0xa210, "FocalPlaneResolutionUnit", tShort, cN(1), "OOOO"),
	def(0xa214, "SubjectLocation", tShort, cN(2), "OOOO"),
	def(0xa215, "ExposureIndex", tRat, cN(1), "OOOO"),
	def(0xa217, "SensingMethod", tShort, cN(1), "OOOO"),
	def(0xa300, "FileSource", tUndef, cN(1), "OOOO"),
	def(0xa301, "SceneType", tUndef, cN(1), "OOOO"),
	def(0xa302, "CFAPattern", tUndef, cAny, "OOOO"),
	def(0xa401, "CustomRendered", tShort, cN(1), "OOOO"),
	def(0xa402, "ExposureMode", tShort, cN(1), "RRRR"),
	def(0xa403, "WhiteBalance", tShort, cN(1), "RRRR"),
	def(0xa404, "DigitalZoomRatio", tRat, cN(1), "OOOO"),
	def(0xa405, "FocalLengthIn35mmFilm", tShort, cN(1), "OOOO"),
	def(0xa406, "SceneCaptureType", tShort, cN(1), "RRRR"),
	def(0xa407, "GainControl", tRat, cN(1), "OOOO"),
	def(0xa408, "Contrast", tShort, cN(1), "OOOO"),
	def(0xa409, "Saturation", tShort, cN(1), "OOOO"),
	def(0xa40a, "Sharpness", tShort, cN(1), "OOOO"),
	def(0xa40b, "DeviceSettingDescription", tUndef, cAny, "OOOO"),
	def(0xa40c, "SubjectDistanceRange", tShort, cN(1), "OOOO"),
	def(0xa420, "ImageUniqueID", tASCII, cN(33), "OOOO"),
	def(0xa430, "CameraOwnerName", tText, cAny, "OOOO"),
	def(0xa431, "BodySerialNumber", tASCII, cAny, "OOOO"),
	def(0xa432, "LensSpecification", tRat, cN(4), "OOOO"),
	def(0xa433, "LensMake", tText, cAny, "OOOO"),
	def(0xa434, "LensModel", tText, cAny, "OOOO"),
	def(0xa435, "LensSerialNumber", tASCII, cAny, "OOOO"),
	def(0xa436, "ImageTitle", tText, cAny, "OOOO"),
	def(0xa437, "Photographer", tText, cAny, "OOOO"),
	def(0xa438, "ImageEditor", tText, cAny, "OOOO"),
	def(0xa439, "CameraFirmware", tText, cAny, "OOOO"),
	def(0xa43a, "RAWDevelopingSoftware", tText, cAny, "OOOO"),
	def(0xa43b, "ImageEditingSoftware", tText, cAny, "OOOO"),
	def(0xa43c, "MetadataEditingSoftware", tText, cAny, "OOOO"),
	def(0xa460, "CompositeImage", tShort, cN(1), "RRRR"),
	def(0xa461, "SourceImageNumberOfCompositeImage", tShort, cN(2), "OOOO"),
	def(0xa462, "SourceExposureTimesOfCompositeImage", tUndef, cAny, "OOOO"),
	def(0xa500, "Gamma", tRat, cN(1), "OOOO"),
}

var fieldsGPS = []TagDef{
	def(0x00, "GPSVersionID", tByte, cN(4), "OOOO"),
	def(0x01, "GPSLatitudeRef", tASCII, cN(2), "OOOO"),
	def(0x02, "GPSLatitude", tRat, cN(3), "OOOO"),
	def(0x03, "GPSLongitudeRef", tASCII, cN(2), "OOOO"),
	def(0x04, "GPSLongitude", tRat, cN(3), "OOOO"),
	def(0x05, "GPSAltitudeRef", tByte, cN(1), "OOOO"),
	def(0x06, "GPSAltitude", tRat, cN(1), "OOOO"),
	def(0x07, "GPSTimeStamp", tRat, cN(3), "OOOO"),
	def(0x08, "GPSSatellites", tASCII, cAny, "OOOO"),
	def(0x09, "GPSStatus", tASCII, cN(2), "OOOO"),
	def(0x0a, "GPSMeasureMode", tASCII, cN(2), "OOOO"),
	def(0x0b, "GPSDOP", tRat, cN(1), "OOOO"),
	def(0x0c, "GPSSpeedRef", tASCII, cN(2), "OOOO"),
	def(0x0d, "GPSSpeed", tRat, cN(1), "OOOO"),
	def(0x0e, "GPSTrackRef", tASCII, cN(2), "OOOO"),
	def(0x0f, "GPSTrack", tRat, cN(1), "OOOO"),
	def(0x10, "GPSImgDirectionRef", tASCII, cN(2), "OOOO"),
	def(0x11, "GPSImgDirection", tRat, cN(1), "OOOO"),
	def(0x12, "GPSMapDatum", tASCII, cAny, "OOOO"),
	def(0x13, "GPSDestLatitudeRef", tASCII, cN(2), "OOOO"),
	def(0x14, "GPSDestLatitude", tRat, cN(3), "OOOO"),
	def(0x15, "GPSDestLongitudeRef", tASCII, cN(2), "OOOO"),
	def(0x16, "GPSDestLongitude", tRat, cN(3), "OOOO"),
	def(0x17, "GPSDestBearingRef", tASCII, cN(2), "OOOO"),
	def(0x18, "GPSDestBearing", tRat, cN(1), "OOOO"),
	def(0x19, "GPSDestDistanceRef", tASCII, cN(2), "OOOO"),
	def(0x1a, "GPSDestDistance", tRat, cN(1), "OOOO"),
	def(0x1b, "GPSProcessingMethod", tUndef, cAny, "OOOO"),
	def(0x1c, "GPSAreaInformation", tUndef, cAny, "OOOO"),
	def(0x1d, "GPSDateStamp", tASCII, cN(11), "OOOO"),
	def(0x1e, "GPSDifferential", tShort, cN(1), "OOOO"),
	def(0x1f, "GPSHPositioningError", tRat, cN(1), "OOOO"),
}

var fieldsInterop = []TagDef{
	def(0x0001, "InteroperabilityIndex", tASCII, cAny, "ONNN"),
	def(0x0002, "InteroperabilityVersion", tUndef, cN(4), "OOOO"),
	def(0x1000, "RelatedImageFileFormat", tASCII, cAny, "OOOO"),
	def(0x1001, "RelatedImageWidth", tShortLong, cN(1), "OOOO"),
	def(0x1002, "RelatedImageLength", tShortLong, cN(1), "OOOO"),
}
