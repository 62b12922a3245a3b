package controller

import "errors"

var (
	ErrParseRequest = errors.New("failed to parse request")

	ErrTelegramAuth  = errors.New("failed to verify telegram init data")
	ErrAdminLogin    = errors.New("invalid admin credentials")
	ErrRegisterUser  = errors.New("failed to register user")
	ErrGenerateToken = errors.New("failed to generate token")

	ErrChat = errors.New("failed to process chat turn")

	ErrGetSessions        = errors.New("failed to get chat sessions")
	ErrGetSessionMessages = errors.New("failed to get session messages")
	ErrDeleteSession      = errors.New("failed to delete chat session")
	ErrDeleteMessage      = errors.New("failed to delete message")
	ErrMessageNotFound    = errors.New("message not found")

	ErrGetStats = errors.New("failed to compute stats")

	ErrGetUsers   = errors.New("failed to get users")
	ErrDeleteUser = errors.New("failed to delete user")

	ErrGetMaterials     = errors.New("failed to get materials")
	ErrMaterialNotFound = errors.New("material not found")
	ErrCreateMaterial   = errors.New("failed to create material")
	ErrUpdateMaterial   = errors.New("failed to update material")
	ErrDeleteMaterial   = errors.New("failed to delete material")
	ErrSearchMaterials  = errors.New("failed to search materials")
	ErrRegisterAsset    = errors.New("failed to register material asset")
	ErrGetAudioLink     = errors.New("failed to generate audio link")

	ErrGetCategories    = errors.New("failed to get categories")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCreateCategory   = errors.New("failed to create category")
	ErrUpdateCategory   = errors.New("failed to update category")
	ErrDeleteCategory   = errors.New("failed to delete category")

	ErrGeneratePolicyToken = errors.New("failed to generate policy token")

	ErrGetAudioFile  = errors.New("failed to get audio file")
	ErrTranscription = errors.New("failed to transcribe audio")
)
